package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Codes attached to errors the transport itself produced, as opposed to
// backend-supplied codes.
const (
	CodeTimeout = "TIMEOUT"
	CodeNetwork = "NETWORK_ERROR"
	CodeUnknown = "UNKNOWN_ERROR"
)

// Error is the single normalized error shape every backend call fails with.
// Code is either a backend-supplied code, HTTP_<status>, or one of the
// transport codes above. StatusCode is zero when no response was received.
type Error struct {
	Message    string
	StatusCode int
	Code       string
	Details    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// AsError unwraps err into the normalized API error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsConflict reports whether err is an HTTP 409, e.g. a double-booking.
func IsConflict(err error) bool { return hasStatus(err, http.StatusConflict) }

// IsNotFound reports whether err is an HTTP 404.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsAuthz reports whether err is an HTTP 401 or 403 (demo header missing or
// mismatched).
func IsAuthz(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

// IsServer reports whether err is a 5xx response.
func IsServer(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode >= 500
}

// IsTimeout reports whether the request timed out before a response arrived.
func IsTimeout(err error) bool { return hasCode(err, CodeTimeout) }

// IsNetwork reports whether no response reached the client at all.
func IsNetwork(err error) bool { return hasCode(err, CodeNetwork) }

func hasStatus(err error, status int) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode == status
}

func hasCode(err error, code string) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Code == code
}

// Localized fallback messages per HTTP status, used when the backend body
// carries no structured error.
var statusMessages = map[int]string{
	400: "Richiesta non valida. Verifica i dati inseriti.",
	401: "Non autorizzato. Effettua il login.",
	403: "Accesso negato. Non hai i permessi necessari.",
	404: "Risorsa non trovata.",
	409: "Conflitto. La risorsa potrebbe essere già esistente o in uso.",
	500: "Errore interno del server. Riprova più tardi.",
	502: "Errore del gateway. Il server non è disponibile.",
	503: "Servizio non disponibile. Riprova più tardi.",
}

const (
	msgTimeout = "Timeout: la richiesta ha impiegato troppo tempo. Riprova più tardi."
	msgNetwork = "Impossibile connettersi al server. Verifica la connessione di rete."
	msgUnknown = "Errore sconosciuto durante la richiesta."
)

// Generic replacements for statuses whose real message could reveal whether a
// given identifier exists (user-enumeration mitigation).
var genericMessages = map[int]string{
	401: "Credenziali non valide.",
	403: "Accesso negato.",
	409: "Impossibile completare l'operazione. Verifica i dati inseriti e riprova.",
}

// errorEnvelope matches the backend error body shapes:
// {"error":{"code":..,"message":..,"details":..}}, {"error":"text"} or
// {"message":"text"}.
type errorEnvelope struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type structuredError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// newResponseError normalizes a non-2xx response into *Error.
func newResponseError(status int, body []byte) *Error {
	var env errorEnvelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil {
		if len(env.Error) > 0 {
			var structured structuredError
			if err := json.Unmarshal(env.Error, &structured); err == nil && structured.Message != "" {
				return &Error{
					Message:    structured.Message,
					StatusCode: status,
					Code:       structured.Code,
					Details:    structured.Details,
				}
			}
			var plain string
			if err := json.Unmarshal(env.Error, &plain); err == nil && plain != "" {
				return &Error{Message: plain, StatusCode: status, Code: httpCode(status)}
			}
		}
		if env.Message != "" {
			return &Error{Message: env.Message, StatusCode: status, Code: httpCode(status)}
		}
	}

	msg, ok := statusMessages[status]
	if !ok {
		msg = fmt.Sprintf("Errore %d", status)
	}
	return &Error{Message: msg, StatusCode: status, Code: httpCode(status)}
}

func httpCode(status int) string {
	return fmt.Sprintf("HTTP_%d", status)
}

// UserMessage extracts a message suitable for display. Sensitive statuses
// (401/403/409) are replaced with generic text unless bypassSensitivity is
// set; booking flows bypass it so a scheduling conflict stays explicit.
func UserMessage(err error, fallback string, bypassSensitivity bool) string {
	if err == nil {
		return fallback
	}
	apiErr, ok := AsError(err)
	if !ok {
		if err.Error() != "" {
			return err.Error()
		}
		return fallback
	}
	if !bypassSensitivity {
		if generic, sensitive := genericMessages[apiErr.StatusCode]; sensitive {
			return generic
		}
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
