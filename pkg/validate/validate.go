// Package validate, request DTO'larının struct tag tabanlı doğrulamasını yapar.
//
// go-playground/validator paylaşılan tek bir instance olarak kullanılır
// (instance struct metadata'sını cache'ler, thread-safe'dir).
// Hata alan adları JSON tag'inden alınır: "PlateNumber" değil "plate_number".
//
// Özel kurallar:
//   - plate:      Türk plakası (normalize edilmiş: büyük harf, boşluksuz), ör. 34ABC123
//   - nationalid: 11 haneli TC kimlik no, checksum dahil
//   - permission: "resource:read|write|*" veya "*"
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/go-playground/validator/v10"
)

var (
	v *validator.Validate

	plateRegex      = regexp.MustCompile(`^(0[1-9]|[1-7][0-9]|8[01])[A-Z]{1,3}[0-9]{2,4}$`)
	permissionRegex = regexp.MustCompile(`^(\*|[a-z][a-z_]*:(\*|read|write))$`)
)

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister("plate", func(fl validator.FieldLevel) bool {
		return IsPlate(fl.Field().String())
	})
	mustRegister("nationalid", func(fl validator.FieldLevel) bool {
		return IsNationalID(fl.Field().String())
	})
	mustRegister("permission", func(fl validator.FieldLevel) bool {
		return permissionRegex.MatchString(fl.Field().String())
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Struct, s'yi doğrular. Geçersizse *pkg.ValidationError döner.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &pkg.ValidationError{Fields: make([]pkg.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, pkg.FieldError{
			Field: fieldPath(fe),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// fieldPath, namespace'in ilk segmentini (struct adı) atar: "CreateAssetRequest.plate_number" → "plate_number".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// NormalizePlate, plakayı büyük harfe çevirir ve boşluk/tire karakterlerini kaldırır.
// "34 abc 123" → "34ABC123"
func NormalizePlate(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

// IsPlate, normalize edilmiş plakanın formatını kontrol eder.
func IsPlate(s string) bool {
	return plateRegex.MatchString(s)
}

// IsNationalID, TC kimlik numarasını checksum ile doğrular.
//
// Kurallar: 11 rakam, ilk hane 0 olamaz;
// 10. hane = ((1+3+5+7+9. haneler)*7 - (2+4+6+8. haneler)) mod 10;
// 11. hane = ilk 10 hanenin toplamı mod 10.
func IsNationalID(s string) bool {
	if len(s) != 11 || s[0] == '0' {
		return false
	}
	var d [11]int
	for i := 0; i < 11; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		d[i] = int(s[i] - '0')
	}

	odd := d[0] + d[2] + d[4] + d[6] + d[8]
	even := d[1] + d[3] + d[5] + d[7]
	check10 := ((odd*7-even)%10 + 10) % 10
	if check10 != d[9] {
		return false
	}

	sum := 0
	for i := 0; i < 10; i++ {
		sum += d[i]
	}
	return sum%10 == d[10]
}

// IsPermission, izin string'inin formatını kontrol eder.
func IsPermission(s string) bool {
	return permissionRegex.MatchString(s)
}

// Required, struct tag ile ifade edilemeyen "zorunlu" durumları için tek alanlı hata.
// Ör. kısmi güncellemede gönderilen ama boş olan alan.
func Required(field string) error {
	return pkg.NewValidationError(field, "required", "")
}

// Rule, tek alanlı özel kural hatası.
func Rule(field, rule, param string) error {
	return pkg.NewValidationError(field, rule, param)
}
