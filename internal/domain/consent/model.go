package consent

import (
	"fmt"
	"net/http"
	"time"
)

// RecordTypePatient is the pdp.tipo value for rows created by this service.
const RecordTypePatient = "PAC"

// ConsentRecord maps to the pdp table.
type ConsentRecord struct {
	ID        int64      `db:"id" json:"id"`
	Tipo      string     `db:"tipo" json:"tipo"`
	Cedula    string     `db:"cedula" json:"cedula"`
	Status    string     `db:"status" json:"status"`
	Fecha     time.Time  `db:"fecha" json:"fecha"`
	Email     *string    `db:"email" json:"email,omitempty"`
	TipoEnvio *string    `db:"tipo_envio" json:"tipo_envio,omitempty"`
	Usuario   *string    `db:"usuario" json:"usuario,omitempty"`
	FechaAct  *time.Time `db:"fecha_act" json:"fecha_act,omitempty"`
}

// ConsentChange is a status write for one (national ID, delivery type) pair.
type ConsentChange struct {
	Cedula    string
	Status    string
	TipoEnvio string
	// Usuario records who made the change. Empty leaves it unset.
	Usuario string
	At      time.Time
}

// Ack is the reply to a successful create or update.
type Ack struct {
	Code    int    `json:"statusCode"`
	Message string `json:"message"`
}

func createdAck(id int64) *Ack {
	return &Ack{Code: http.StatusCreated, Message: fmt.Sprintf("Record created with ID: %d", id)}
}

func updatedAck(cedula string) *Ack {
	return &Ack{Code: http.StatusOK, Message: fmt.Sprintf("Record updated for ID: %s", cedula)}
}
