package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	cErr "wanderlust/internal/pkg/error"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validator 可選：payload 自訂特定欄位 + tag 的錯誤訊息
type Validator interface {
	GetMessages() ValidatorMessages
}

// ValidatorMessages key 為 "欄位路徑.tag"，陣列索引以 .* 表示
type ValidatorMessages map[string]string

var reg = regexp.MustCompile(`\[\d+\]`)

var (
	once     sync.Once
	validate *validator.Validate
)

// Engine 取得共用的 validator；錯誤欄位名稱採 json tag
func Engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterAlias("pwd", "min=6,max=72") // bcrypt 僅取前 72 bytes
		validate.RegisterAlias("phone", "e164")
		validate.RegisterAlias("ymd", "datetime=2006-01-02")
	})
	return validate
}

// BindJSON 解析 JSON 並執行欄位驗證
func BindJSON(c *gin.Context, payload any) *cErr.Error {
	if c.Request.Body == nil {
		return cErr.BadRequestBody("request body is required")
	}
	decoder := json.NewDecoder(c.Request.Body)
	if err := decoder.Decode(payload); err != nil {
		if errors.Is(err, io.EOF) {
			return cErr.BadRequestBody("request body is required")
		}
		return cErr.BadRequestBody("invalid json")
	}
	return Struct(payload)
}

// Struct 驗證 payload，失敗時回傳帶欄位明細的 ValidationFailed
func Struct(payload any) *cErr.Error {
	details := Validate(payload)
	if len(details) == 0 {
		return nil
	}
	return cErr.ValidationFailed(details)
}

// Validate 回傳所有欄位錯誤
func Validate(payload any) []cErr.FieldError {
	err := Engine().Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []cErr.FieldError{{Field: "payload", Message: "invalid payload"}}
	}

	messages, hasMessages := payload.(Validator)
	details := make([]cErr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe)
		message := formatFieldError(fe)
		if hasMessages {
			if custom, exist := messages.GetMessages()[reg.ReplaceAllString(field, ".*")+"."+fe.Tag()]; exist {
				message = custom
			}
		}
		details = append(details, cErr.FieldError{Field: field, Message: message})
	}
	return details
}

// fieldPath 去掉最外層 struct 名稱，例如 Tour.pricing.adultPrice → pricing.adultPrice
func fieldPath(fe validator.FieldError) string {
	namespace := fe.Namespace()
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url", "http_url":
		return "must be a valid URL"
	case "e164", "phone":
		return "must be a valid phone number"
	case "iso4217":
		return "must be a valid ISO 4217 currency code"
	case "datetime":
		return "must match datetime format: " + param
	case "ymd":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		if isCollectionKind(fe.Kind()) {
			return "must contain at least " + param + " items"
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		if isCollectionKind(fe.Kind()) {
			return "must contain at most " + param + " items"
		}
		return "must be at most " + param + " characters long"
	case "pwd":
		return "must be between 6 and 72 characters long"
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "unique":
		return "must contain unique items"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func isCollectionKind(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}
