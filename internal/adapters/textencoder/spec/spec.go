// Package spec carries the fixed-width field layout for the SICOSS export
// (one record type, unlike the multi-record EFW2C layout this shape is
// modeled on): a data table the encoder walks by field name instead of
// branching on field order.
package spec

// FieldType selects how Encode renders a field's value.
type FieldType int

const (
	Integer FieldType = iota
	Money
	Text
)

// Field names one column of the fixed-width record: its byte range
// (1-indexed, inclusive, matching the regulator's published layout) and how
// its value is rendered.
type Field struct {
	Name  string
	Start int
	End   int
	Type  FieldType
}

// RecordLen is the total byte width of one SICOSS line, excluding the CRLF
// terminator.
const RecordLen = 499

// Layout is the field table for the SICOSS fixed-width record.
var Layout = []Field{
	{"CUIT", 1, 11, Text},
	{"Apyno", 12, 41, Text},
	{"ConyugeFlag", 42, 42, Integer},
	{"Hijos", 43, 44, Integer},
	{"CodigoSituacion", 45, 46, Integer},
	{"CodigoCondicion", 47, 48, Integer},
	{"TipoDeActividad", 49, 51, Integer},
	{"CodigoZona", 52, 53, Integer},
	{"AporteAdicional", 54, 58, Money},
	{"CodigoContratacion", 59, 61, Integer},
	{"CodigoOS", 62, 67, Text},
	{"Adherentes", 68, 69, Integer},
	{"ImporteBruto", 70, 81, Money},
	{"ImporteImpon", 82, 93, Money},
	{"AsignacionesFliaresPagadas", 94, 102, Money},
	{"ImporteVoluntario", 103, 111, Money},
	{"ImporteAdicionalOS", 112, 120, Money},
	{"AbsImporteSICOSSDec56119", 121, 129, Money},
	{"ZeroFillerNine", 130, 138, Text},
	{"ProvinciaLocalidad", 139, 188, Text},
	{"ImporteImponiblePatronal1", 189, 200, Money},
	{"ImporteImponiblePatronal2", 201, 212, Money},
	{"ImporteImponible4First", 213, 224, Money},
	{"Filler00", 225, 226, Text},
	{"Filler0", 227, 227, Text},
	{"FillerZeroMoney", 228, 236, Text},
	{"Filler1", 237, 237, Text},
	{"AporteAdicionalObraSocial", 238, 246, Money},
	{"Regimen", 247, 247, Text},
	{"CodigoRevista1", 248, 249, Integer},
	{"FechaRevista1", 250, 251, Integer},
	{"CodigoRevista2", 252, 253, Integer},
	{"FechaRevista2", 254, 255, Integer},
	{"CodigoRevista3", 256, 257, Integer},
	{"FechaRevista3", 258, 259, Integer},
	{"ImporteSueldoMasAdicionales", 260, 271, Money},
	{"ImporteSAC", 272, 283, Money},
	{"ImporteHorasExtras", 284, 295, Money},
	{"ImporteZonaDesfavorable", 296, 307, Money},
	{"ImporteVacaciones", 308, 319, Money},
	{"DiasTrabajadosFiller", 320, 328, Text},
	{"ImporteImponible4MenosTipo91", 329, 340, Money},
	{"TrabajadorConvencionado", 341, 341, Text},
	{"ImporteImponible6", 342, 353, Money},
	{"TipoDeOperacion", 354, 354, Integer},
	{"ImporteAdicionales", 355, 366, Money},
	{"ImportePremios", 367, 378, Money},
	{"Remuner78805", 379, 390, Money},
	{"ImporteImponible6Repeat", 391, 402, Money},
	{"CantidadHorasExtras", 403, 405, Integer},
	{"ImporteNoRemun", 406, 417, Money},
	{"ImporteMaternidad", 418, 429, Money},
	{"ImporteRectificacionRemun", 430, 438, Money},
	{"ImporteImponible9", 439, 450, Money},
	{"ContribTareaDif", 451, 459, Money},
	{"Filler000", 460, 462, Text},
	{"SeguroVidaObligatorio", 463, 463, Integer},
	{"ImporteSICOSS27430", 464, 475, Money},
	{"IncrementoSolidario", 476, 487, Money},
	{"ZeroPlaceholder", 488, 499, Money},
}
