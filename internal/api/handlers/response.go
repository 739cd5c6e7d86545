// Package handlers содержит общие помощники HTTP слоя: разбор JSON,
// валидацию запросов и единый формат ответов с ошибкой.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

const (
	MsgInvalidRequestBody = "некорректное тело запроса"
	MsgUnauthorized       = "отсутствует или некорректен заголовок X-User-ID / X-User-Role"
	MsgForbidden          = "доступ запрещен"
	MsgInternalError      = "внутренняя ошибка сервера"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON декодирует тело запроса и проверяет его по тегам validate
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return validate.Struct(v)
}

// Validate проверяет структуру по тегам validate (для query параметров)
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// ValidationDetails превращает ошибки валидатора в список "поле: правило"
func ValidationDetails(err error) []string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}
	details := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details = append(details, fmt.Sprintf("%s: %s", fe.Field(), rule))
	}
	return details
}

// RespondJSON пишет ответ в JSON
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondValidationError 400 с перечнем нарушенных правил
func RespondValidationError(w http.ResponseWriter, err error) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   MsgInvalidRequestBody,
		Details: ValidationDetails(err),
	})
}

// RespondDecodeError 400 для ошибки DecodeJSON: с деталями, если не прошла валидация
func RespondDecodeError(w http.ResponseWriter, err error) {
	if details := ValidationDetails(err); details != nil {
		RespondJSON(w, http.StatusBadRequest, ErrorResponse{Error: MsgInvalidRequestBody, Details: details})
		return
	}
	RespondBadRequest(w, MsgInvalidRequestBody)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondInternalError 500 без подробностей хранилища
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, MsgInternalError)
}

// StatusFromError HTTP статус по виду ошибки
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отвечает по виду ошибки. message используется для 4xx,
// если пустой, в ответ попадает текст ошибки
func RespondDomainError(w http.ResponseWriter, err error, message string) {
	status := StatusFromError(err)
	if status == http.StatusInternalServerError {
		RespondInternalError(w)
		return
	}
	if message == "" {
		message = err.Error()
	}
	RespondError(w, status, message)
}

// ParsePage номер страницы из query, некорректный или отсутствующий означает 1
func ParsePage(r *http.Request) int {
	page, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page")))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
