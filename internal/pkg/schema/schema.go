// Package schema 请求体解析与声明式校验，错误按 JSON 字段名组织
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SchemaKey 非字段级错误使用的键
const SchemaKey = "_schema"

const (
	msgInvalidInput = "Invalid input type."
	msgNoData       = "No input data provided."
)

// ValidationError 字段级校验错误，Fields 的值为 []string 或嵌套的 map
type ValidationError struct {
	Fields map[string]interface{}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// NewFieldError 构造单字段错误
func NewFieldError(field string, messages ...string) *ValidationError {
	return &ValidationError{Fields: map[string]interface{}{field: messages}}
}

// IndexedError 把批量中第 index 个元素的错误包一层索引
func IndexedError(index int, err *ValidationError) *ValidationError {
	return &ValidationError{Fields: map[string]interface{}{strconv.Itoa(index): err.Fields}}
}

// Merge 合并多个批量错误
func Merge(errs ...*ValidationError) *ValidationError {
	merged := &ValidationError{Fields: map[string]interface{}{}}
	for _, e := range errs {
		if e == nil {
			continue
		}
		for k, v := range e.Fields {
			merged.Fields[k] = v
		}
	}
	if len(merged.Fields) == 0 {
		return nil
	}
	return merged
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate 校验单个结构体
func Validate(obj interface{}) *ValidationError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewFieldError(SchemaKey, msgInvalidInput)
	}

	fields := map[string]interface{}{}
	for _, fe := range verrs {
		// Namespace 形如 UserCreate.user_profile.first_name，去掉根类型名
		path := strings.Split(fe.Namespace(), ".")
		if len(path) > 1 {
			path = path[1:]
		}
		insert(fields, path, message(fe))
	}
	return &ValidationError{Fields: fields}
}

func insert(fields map[string]interface{}, path []string, msg string) {
	key := path[0]
	if len(path) == 1 {
		existing, _ := fields[key].([]string)
		fields[key] = append(existing, msg)
		return
	}
	child, ok := fields[key].(map[string]interface{})
	if !ok {
		child = map[string]interface{}{}
		fields[key] = child
	}
	insert(child, path[1:], msg)
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "Missing data for required field."
	case "email":
		return "Not a valid email address."
	case "len":
		return fmt.Sprintf("Length must be %s.", fe.Param())
	case "numeric":
		return "Not a valid number."
	case "datetime":
		return "Not a valid date."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if isString {
			return fmt.Sprintf("Shorter than minimum length %s.", fe.Param())
		}
		return fmt.Sprintf("Must be greater than or equal to %s.", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Longer than maximum length %s.", fe.Param())
		}
		return fmt.Sprintf("Must be less than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	default:
		return "Invalid value."
	}
}

// Decode 解析 JSON 对象并校验
func Decode(r io.Reader, obj interface{}) *ValidationError {
	if verr := decodeJSON(r, obj); verr != nil {
		return verr
	}
	return Validate(obj)
}

// DecodeList 解析 JSON 数组并逐个解码校验，错误按元素下标组织
func DecodeList[T any](r io.Reader) ([]T, *ValidationError) {
	body, verr := readBody(r)
	if verr != nil {
		return nil, verr
	}
	var raws []json.RawMessage
	if verr := unmarshal(body, &raws); verr != nil {
		return nil, verr
	}
	if len(raws) == 0 {
		return nil, NewFieldError(SchemaKey, msgNoData)
	}

	items := make([]T, len(raws))
	var errs []*ValidationError
	for i, raw := range raws {
		verr := unmarshal(raw, &items[i])
		if verr == nil {
			verr = Validate(&items[i])
		}
		if verr != nil {
			errs = append(errs, IndexedError(i, verr))
		}
	}
	if merged := Merge(errs...); merged != nil {
		return nil, merged
	}
	return items, nil
}

func decodeJSON(r io.Reader, obj interface{}) *ValidationError {
	body, verr := readBody(r)
	if verr != nil {
		return verr
	}
	return unmarshal(body, obj)
}

func readBody(r io.Reader) ([]byte, *ValidationError) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, NewFieldError(SchemaKey, msgInvalidInput)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, NewFieldError(SchemaKey, msgNoData)
	}
	return body, nil
}

func unmarshal(data []byte, obj interface{}) *ValidationError {
	if err := json.Unmarshal(data, obj); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return typeError(typeErr)
		}
		return NewFieldError(SchemaKey, msgInvalidInput)
	}
	return nil
}

// typeError 类型不匹配时定位到具体字段
func typeError(e *json.UnmarshalTypeError) *ValidationError {
	msg := fmt.Sprintf("Not a valid %s.", e.Type.Kind())
	path := strings.Split(e.Field, ".")
	fields := map[string]interface{}{}
	insert(fields, path, msg)
	return &ValidationError{Fields: fields}
}
