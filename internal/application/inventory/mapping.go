package inventory

import (
	"github.com/jhoicas/trufas-inventario-api/internal/application/dto"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// ToItemResponse convierte un artículo a su DTO.
func ToItemResponse(it *entity.SerializedInventoryItem) dto.SerializedItemResponse {
	return dto.SerializedItemResponse{
		ItemUID:           it.ItemUID,
		ProductID:         it.ProductID,
		VariantID:         it.VariantID,
		Status:            string(it.Status),
		BatchNumber:       it.BatchNumber,
		ProductionDate:    it.ProductionDate,
		ExpiryDate:        it.ExpiryDate,
		CostPrice:         it.CostPrice,
		ActualWeightGrams: it.ActualWeightGrams,
		QRCodePath:        it.QRCodePath,
		PassportPath:      it.PassportPath,
		LabelPath:         it.LabelPath,
		Notes:             it.Notes,
		OrderID:           it.OrderID,
		ReceivedAt:        it.ReceivedAt,
		UpdatedAt:         it.UpdatedAt,
	}
}

// ToMovementResponse convierte una fila del libro a su DTO.
func ToMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		VariantID:         m.VariantID,
		SerializedItemID:  m.SerializedItemID,
		RelatedOrderID:    m.RelatedOrderID,
		RelatedUserID:     m.RelatedUserID,
		MovementType:      string(m.MovementType),
		QuantityChange:    m.QuantityChange,
		WeightChangeGrams: m.WeightChangeGrams,
		AdjustmentType:    m.AdjustmentType,
		Reason:            m.Reason,
		Notes:             m.Notes,
		CreatedAt:         m.CreatedAt,
	}
}

func toMovementResponses(list []*entity.StockMovement) []dto.StockMovementResponse {
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}
