package validate

import (
	"strings"

	"github.com/paemuri/brdoc"
)

// NormalizePlate upper-cases the plate and strips spaces.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), " ", ""))
}

// Plate accepts the old ABC-1234 format (dash optional) and the Mercosul ABC1D23 format.
func Plate(plate string) bool {
	plate = NormalizePlate(plate)
	if brdoc.IsMercosulPlate(plate) {
		return true
	}
	return brdoc.IsNationalPlate(withPlateDash(plate)) || brdoc.IsNationalPlate(strings.Replace(plate, "-", "", 1))
}

func withPlateDash(plate string) string {
	if len(plate) != 7 || strings.Contains(plate, "-") {
		return plate
	}
	return plate[:3] + "-" + plate[3:]
}

// Digits keeps only 0-9.
func Digits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func CPF(value string) bool {
	digits := Digits(value)
	if len(digits) != 11 || repeated(digits) {
		return false
	}
	return brdoc.IsCPF(digits)
}

func CNPJ(value string) bool {
	digits := Digits(value)
	if len(digits) != 14 || repeated(digits) {
		return false
	}
	return brdoc.IsCNPJ(digits)
}

// TaxID accepts either a CPF or a CNPJ.
func TaxID(value string) bool {
	switch len(Digits(value)) {
	case 11:
		return CPF(value)
	case 14:
		return CNPJ(value)
	default:
		return false
	}
}

func repeated(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}
