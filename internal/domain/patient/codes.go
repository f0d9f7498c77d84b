package patient

// CodeTriple is a coded value with its English display and Spanish text.
type CodeTriple struct {
	Code    string
	Display string
	Text    string
}

var maritalStatusCodes = map[string]CodeTriple{
	"DVC": {Code: "D", Display: "Divorced", Text: "Divorciado"},
	"SOL": {Code: "S", Display: "Never Married", Text: "Soltero"},
	"VDO": {Code: "W", Display: "Widowed", Text: "Viudo"},
	"CAS": {Code: "M", Display: "Married", Text: "Casado"},
}

var unknownMaritalStatus = CodeTriple{Code: "UN", Display: "Unknown", Text: "Desconocido"}

// MaritalStatusCode maps a HIS estado_civil code to v3-MaritalStatus.
func MaritalStatusCode(short string) CodeTriple {
	if t, ok := maritalStatusCodes[short]; ok {
		return t
	}
	return unknownMaritalStatus
}

var nationalityCodes = map[string]CodeTriple{
	"ECU": {Code: "ECU", Display: "Ecuador", Text: "Ecuatoriano"},
	"COL": {Code: "COL", Display: "Colombia", Text: "Colombiano"},
}

// NationalityCode maps a HIS nacionalidad code to an ISO 3166 coding. Unknown
// codes pass through unchanged with a generic display.
func NationalityCode(short string) CodeTriple {
	if t, ok := nationalityCodes[short]; ok {
		return t
	}
	return CodeTriple{Code: short, Display: "Otro", Text: "Otro"}
}
