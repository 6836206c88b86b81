package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorEnvelope(status int, message string) envelope {
	return envelope{"error": map[string]string{
		"code":    http.StatusText(status),
		"message": message,
	}}
}

func errorResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, status int, message string) {
	if err := writeJSON(w, status, errorEnvelope(status, message), nil); err != nil {
		log.Error("failed to write error response", zap.Error(err), zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func badRequestResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(log, w, r, http.StatusBadRequest, errorMessage(err))
}

func notFoundResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(log, w, r, http.StatusNotFound, errorMessage(err))
}

func serverErrorResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	log.Error("internal server error", zap.Error(err),
		zap.String("method", r.Method), zap.String("path", r.URL.Path))
	errorResponse(log, w, r, http.StatusInternalServerError, util.MessageInternalServerError)
}

// getStatusCode maps the error code of a util.Error to an HTTP response.
func getStatusCode(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch statusOf(err) {
	case http.StatusBadRequest:
		badRequestResponse(log, w, r, err)
	case http.StatusNotFound:
		notFoundResponse(log, w, r, err)
	default:
		serverErrorResponse(log, w, r, err)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, util.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, util.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	var ierr *util.Error
	if errors.As(err, &ierr) {
		return ierr.Message()
	}
	return err.Error()
}

var (
	validate = validator.New()
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
}

func translateError(err error, trans ut.Translator) []error {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	errs := make([]error, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

// validateRequest returns an ErrBadParamInput error listing every failed field.
func validateRequest(request interface{}) error {
	if err := validate.Struct(request); err != nil {
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		return util.WrapErrorf(err, util.ErrBadParamInput, "validation error: %v", vvString)
	}
	return nil
}
