// Package domain models quiz-night event listings exported as CSV.
//
// # Data Source
//
// Records originate from a third-party venue-listing export (one row per
// event). The export is header-mapped CSV with no schema enforcement: every
// column is free text, columns come and go between exports, and only the
// coordinate columns are reliably meaningful. The normalization here is
// deliberately tolerant: malformed fields degrade the record, they never
// fail the ingestion.
//
// # Field Conventions
//
// Coordinates:
//
//	"latitude"/"longitude" must parse to finite floats. Rows where either is
//	missing or non-finite are dropped before normalization (counted for
//	diagnostics, not errors).
//
// Dates:
//
//	The "date" column is usually "DD-MMM-YY" or "DD-MMM-YYYY" ("05-Jan-24").
//	Two-digit years are expanded by prefixing "20". When the column is absent
//	or unparseable, a date is mined from the free-text columns (address,
//	venue name, notes, preview, title) using four literal patterns; see
//	[ClassifyDay].
//
// Repeating schedules:
//
//	The "repeat_day" column, when present, is an opaque schedule label such
//	as "Tuesday" or "First Tuesday of the month". It is used verbatim as the
//	day label and always wins over any date column.
//
// Weekday names:
//
//	Day labels derived from dates use a fixed English weekday table indexed
//	by [time.Weekday] (0=Sunday..6=Saturday). Locale-formatted weekday names
//	are never used; classification must not depend on the host environment.
//
// Event types:
//
//	Most rows describe smartphone-based quizzes (the export's source is a
//	phone-quiz listing site), so "phone" is the default type. Rows whose
//	title or preview text carries a pen-and-paper signal are classified
//	"pen". See [ClassifyType].
package domain
