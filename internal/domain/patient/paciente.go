package patient

import "time"

// HIS contact type codes.
const (
	ContactoCelular = "CELULAR"
	ContactoEmail   = "EMAIL"
)

// Paciente is the hospital's native patient document.
type Paciente struct {
	ID             int64            `json:"id"`
	Nombres        Nombres          `json:"nombres"`
	Identificacion []Identificacion `json:"identificacion"`
	Sexo           *string          `json:"sexo"`
	Nacimiento     Nacimiento       `json:"nacimiento"`
	Contacto       []Contacto       `json:"contacto"`
	Residencia     []Residencia     `json:"residencia"`
}

type Nombres struct {
	PrimerNombre    *string `json:"primerNombre"`
	SegundoNombre   *string `json:"segundoNombre"`
	ApellidoPaterno *string `json:"apellidoPaterno"`
	ApellidoMaterno *string `json:"apellidoMaterno"`
}

type Identificacion struct {
	Tipo   *string `json:"tipo"`
	Numero string  `json:"numero"`
}

type Nacimiento struct {
	Fecha        *time.Time `json:"fecha"`
	Lugar        *string    `json:"lugar"`
	Nacionalidad *string    `json:"nacionalidad"`
}

type Contacto struct {
	Tipo  string `json:"tipo"`
	Valor string `json:"valor"`
}

type Residencia struct {
	Direccion string `json:"direccion"`
	Parroquia string `json:"parroquia"`
	Canton    string `json:"canton"`
	Provincia string `json:"provincia"`
}

type Metadata struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PacienteResponse wraps a Paciente the way HIS success responses do.
type PacienteResponse struct {
	Data *Paciente `json:"data"`
	Meta Metadata  `json:"meta"`
}

// BuildPaciente converts a pacientes row into the native HIS document. Both
// metadata timestamps are set to now.
func BuildPaciente(rec *PatientRecord, now time.Time) *PacienteResponse {
	p := &Paciente{
		ID: rec.NumeroHC,
		Nombres: Nombres{
			PrimerNombre:    rec.PrimerNombre,
			SegundoNombre:   rec.SegundoNombre,
			ApellidoPaterno: rec.ApellidoPaterno,
			ApellidoMaterno: rec.ApellidoMaterno,
		},
		Identificacion: []Identificacion{{Tipo: rec.TipoIdentificacion, Numero: rec.Cedula}},
		Sexo:           rec.Sexo,
		Nacimiento: Nacimiento{
			Fecha:        rec.FechaNacimiento,
			Lugar:        rec.LugarNacimiento,
			Nacionalidad: rec.Nacionalidad,
		},
		Contacto: []Contacto{
			{Tipo: ContactoCelular, Valor: deref(rec.Telefono)},
			{Tipo: ContactoEmail, Valor: deref(rec.Email)},
		},
		Residencia: []Residencia{{
			Direccion: deref(rec.DireccionDomicilio),
			Parroquia: deref(rec.CiudadDomicilio),
			Canton:    deref(rec.DistritoDomicilio),
			Provincia: deref(rec.ProvinciaDomicilio),
		}},
	}

	ts := now.UTC()
	return &PacienteResponse{Data: p, Meta: Metadata{CreatedAt: ts, UpdatedAt: ts}}
}
