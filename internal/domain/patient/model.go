package patient

import "time"

// PatientRecord maps to the pacientes table. Nullable columns are pointers.
type PatientRecord struct {
	Cedula             string     `db:"cedula" json:"cedula"`
	TipoIdentificacion *string    `db:"tipo_identificacion" json:"tipo_identificacion,omitempty"`
	NumeroHC           int64      `db:"numero_hc" json:"numero_hc"`
	PrimerNombre       *string    `db:"primer_nombre" json:"primer_nombre,omitempty"`
	SegundoNombre      *string    `db:"segundo_nombre" json:"segundo_nombre,omitempty"`
	ApellidoPaterno    *string    `db:"apellido_paterno" json:"apellido_paterno,omitempty"`
	ApellidoMaterno    *string    `db:"apellido_materno" json:"apellido_materno,omitempty"`
	FechaNacimiento    *time.Time `db:"fecha_nacimiento" json:"fecha_nacimiento,omitempty"`
	Sexo               *string    `db:"sexo" json:"sexo,omitempty"`
	EstadoCivil        *string    `db:"estado_civil" json:"estado_civil,omitempty"`
	Nacionalidad       *string    `db:"nacionalidad" json:"nacionalidad,omitempty"`
	LugarNacimiento    *string    `db:"lugar_nacimiento" json:"lugar_nacimiento,omitempty"`
	Telefono           *string    `db:"telefono" json:"telefono,omitempty"`
	Email              *string    `db:"email" json:"email,omitempty"`
	DireccionDomicilio *string    `db:"direccion_domicilio" json:"direccion_domicilio,omitempty"`
	DistritoDomicilio  *string    `db:"prq_cnt_prv_codigo" json:"prq_cnt_prv_codigo,omitempty"`
	CiudadDomicilio    *string    `db:"prq_cnt_codigo" json:"prq_cnt_codigo,omitempty"`
	ProvinciaDomicilio *string    `db:"prq_codigo" json:"prq_codigo,omitempty"`
	DireccionTrabajo   *string    `db:"direccion_trabajo" json:"direccion_trabajo,omitempty"`
}

// MRN is the medical-record number in its textual form, used as the FHIR id.
func (r *PatientRecord) MRN() string {
	return formatMRN(r.NumeroHC)
}

// FullName joins the present name parts with single spaces.
func (r *PatientRecord) FullName() string {
	return joinPresent(" ", r.PrimerNombre, r.SegundoNombre, r.ApellidoPaterno, r.ApellidoMaterno)
}

// FamilyName joins the present family name parts with a single space.
func (r *PatientRecord) FamilyName() string {
	return joinPresent(" ", r.ApellidoPaterno, r.ApellidoMaterno)
}
