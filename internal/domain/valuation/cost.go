package valuation

import "github.com/shopspring/decimal"

// WeightedAverageCost implementa el costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverageCost(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// Summary costo promedio y valor total de un conjunto de unidades.
type Summary struct {
	Units       int
	AverageCost decimal.Decimal
	TotalValue  decimal.Decimal
}

// Accumulate incorpora una unidad con su costo al resumen.
func (s Summary) Accumulate(cost decimal.Decimal) Summary {
	avg := WeightedAverageCost(decimal.NewFromInt(int64(s.Units)), s.AverageCost, decimal.NewFromInt(1), cost)
	return Summary{
		Units:       s.Units + 1,
		AverageCost: avg,
		TotalValue:  s.TotalValue.Add(cost),
	}
}
