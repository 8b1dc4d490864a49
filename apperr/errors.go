package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindPersistence
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindPersistence:
		return "PERSISTENCE"
	case KindConflict:
		return "CONFLICT"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "INTERNAL"
	}
}

// User-facing messages. Storefront copy is Arabic.
const (
	MsgCartEmpty        = "السلة فارغة"
	MsgFieldRequired    = "هذا الحقل مطلوب"
	MsgQuantityPositive = "الكمية يجب أن تكون أكبر من صفر"
	MsgOutOfStock       = "المنتج غير متوفر حالياً"
	MsgSizeUnavailable  = "المقاس المختار غير متوفر"
	MsgColorUnavailable = "اللون المختار غير متوفر"
	MsgProductNotFound  = "المنتج غير موجود"
	MsgItemUnavailable  = "أحد المنتجات في السلة لم يعد متوفراً"
	MsgSizesRequired    = "الرجاء اختيار مقاس واحد على الأقل"
	MsgColorsRequired   = "الرجاء اختيار لون واحد على الأقل"
	MsgOrderNotFound    = "الطلب غير موجود"
	MsgNotFound         = "العنصر غير موجود"
	MsgPersistence      = "حدث خطأ أثناء حفظ البيانات، يرجى المحاولة مرة أخرى"
	MsgBadTransition    = "لا يمكن تغيير حالة الطلب إلى الحالة المطلوبة"
	MsgInvalidStatus    = "حالة غير صالحة"
	MsgInvalidBody      = "بيانات غير صالحة"
	MsgUnauthorized     = "غير مصرح"
	MsgBadCredentials   = "البريد الإلكتروني أو كلمة المرور غير صحيحة"
	MsgInvalidImage     = "صيغة الصورة غير مدعومة"
	MsgFileTooLarge     = "حجم الملف أكبر من المسموح"
	MsgTooManyRequests  = "طلبات كثيرة، يرجى المحاولة لاحقاً"
	MsgDuplicatePhone   = "رقم الهاتف مسجل مسبقاً"
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Persistence wraps a storage failure. The cause is kept for logs only.
func Persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: op, Err: err}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to show a shopper. Internal and
// persistence causes are replaced by a generic notice.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindPersistence || e.Kind == KindInternal {
		return MsgPersistence
	}
	return e.Message
}

func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
