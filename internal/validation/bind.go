package validation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-survey-intake/internal/survey"
)

// Client-facing errors for rejected submission bodies.
const (
	MsgInvalidBody  = "Invalid request body"
	MsgBodyTooLarge = "Request body too large"
)

// MaxBodyBytes caps a submission body at 100 KiB.
const MaxBodyBytes = 100 << 10

// BindSurveyAnswers reads the request body into survey.Answers.
// Field values are not validated. If the body is not a JSON object it writes
// a 400, above MaxBodyBytes a 413, and returns the error so the handler can
// short-circuit.
func BindSurveyAnswers(c *gin.Context) (survey.Answers, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": MsgBodyTooLarge})
			return nil, err
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidBody})
		return nil, err
	}

	answers, err := survey.DecodeAnswers(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidBody})
		return nil, err
	}
	return answers, nil
}

// ErrorsToMap flattens validation errors to field -> message.
func ErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.StructNamespace()] = fe.Error()
		}
	} else if err != nil {
		out["error"] = err.Error()
	}
	return out
}
