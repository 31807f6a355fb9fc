package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/01moynul/taptosell-catalog/internal/admin"
	"github.com/01moynul/taptosell-catalog/internal/catalog"
	"github.com/01moynul/taptosell-catalog/internal/logger"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Catalog  *catalog.Service
	Resource admin.Resource // Product screen configuration served to the admin UI
}

func init() {
	// Report binding errors under the JSON names the client sent.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	}
}

// respondError maps a catalog error to its status. Unexpected errors are logged and
// reported without detail.
func respondError(c *gin.Context, err error) {
	if v, ok := catalog.IsValidation(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": v.Fields})
		return
	}
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.FromGin(c).Error("Catalog operation failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}

// respondBindError reports a request that could not be decoded or failed its binding tags.
func respondBindError(c *gin.Context, err error) {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		numErr    *strconv.NumError
	)
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
	case errors.As(err, &typeErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid request",
			"fields": map[string]string{typeErr.Field: "must be a " + typeErr.Type.String()},
		})
	case errors.As(err, &numErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": "expected a number, got " + strconv.Quote(numErr.Num)})
	case errors.Is(err, io.EOF):
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body is required"})
	case errors.As(err, &syntaxErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed JSON"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "is invalid"
}

// paramID reads a positive integer path parameter. It writes the 400 response itself.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
