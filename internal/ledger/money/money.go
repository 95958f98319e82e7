package money

import "math"

// Valores monetários circulam internamente como int64 em centavos.
// A API pública fala em unidades decimais (ex: 100.00), convertidas aqui na borda.

// ToCents converte um valor decimal em centavos, arredondando meio pra cima
func ToCents(units float64) int64 {
	return int64(math.Round(units * 100))
}

// FromCents converte centavos de volta em unidades decimais
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
