// Package validation содержит правила валидации входных данных API.
package validation

import (
	"regexp"

	validatorv10 "github.com/go-playground/validator/v10"
)

// indianPhoneRe проверяет мобильный номер в формате E.164 для Индии.
var indianPhoneRe = regexp.MustCompile(`^\+91[6-9]\d{9}$`)

// New возвращает настроенный валидатор с доменными правилами.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	_ = v.RegisterValidation("phone_in", func(fl validatorv10.FieldLevel) bool {
		return indianPhoneRe.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(checkoutStructValidation, CheckoutRequest{})

	return v
}

// checkoutStructValidation проверяет инвариант построения заказа:
// заявленный итог равен сумме составляющих за вычетом кэшбэка.
func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)

	computed := req.ItemTotal + req.DeliveryFee + req.PlatformFee - req.CashbackUsed
	if req.Total != computed {
		sl.ReportError(req.Total, "total", "Total", "total_match_parts", "")
	}

	if req.CashbackUsed > req.ItemTotal {
		sl.ReportError(req.CashbackUsed, "cashbackUsed", "CashbackUsed", "cashback_exceeds_items", "")
	}
}

// IsValidPhone проверяет номер телефона вне контекста структуры запроса.
func IsValidPhone(phone string) bool {
	return indianPhoneRe.MatchString(phone)
}

// FieldErrors преобразует ошибку валидатора в сообщения по полям для ответа API.
func FieldErrors(err error) map[string]string {
	var verrs validatorv10.ValidationErrors
	out := make(map[string]string)

	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		verrs = ve
	} else {
		return out
	}

	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "is required"
		case "phone_in":
			out[fe.Field()] = "must be an Indian mobile number in E.164 form"
		case "total_match_parts":
			out[fe.Field()] = "must equal itemTotal + deliveryFee + platformFee - cashbackUsed"
		case "cashback_exceeds_items":
			out[fe.Field()] = "must not exceed itemTotal"
		case "uuid4":
			out[fe.Field()] = "must be a valid identifier"
		default:
			out[fe.Field()] = "is invalid"
		}
	}
	return out
}
