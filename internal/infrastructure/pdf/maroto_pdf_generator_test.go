package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/pdf"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ordenRecibida() *entity.PurchaseOrder {
	now := time.Now()
	return &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		OrderNo:      "CG20260830120000AAAAAAAA",
		SupplierName: "Proveedor Central",
		TotalAmount:  dec("295"),
		Status:       entity.PurchaseOrderStatusCompleted,
		Creator:      "comprador-1",
		Approver:     "admin-1",
		ApprovedAt:   &now,
		ReceivedBy:   "comprador-1",
		ReceivedAt:   &now,
		Remark:       "entrega en depósito",
		CreatedAt:    now,
		UpdatedAt:    now,
		Items: []entity.PurchaseOrderItem{
			{
				ID:          uuid.New().String(),
				ProductName: "harina",
				Quantity:    dec("50"),
				Price:       dec("5.5"),
				Amount:      dec("275"),
				Received:    true,
				ReceivedAt:  &now,
			},
			{
				ID:          uuid.New().String(),
				ProductName: "azúcar",
				Quantity:    dec("10"),
				Price:       dec("2"),
				Amount:      dec("20"),
			},
		},
	}
}

func TestGenerateReceivingSlip_DevuelvePDF(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator()

	doc, err := gen.GenerateReceivingSlip(context.Background(), ordenRecibida())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "el documento debe ser un PDF")
	assert.Greater(t, len(doc), 1000, "un comprobante con líneas no puede ser un PDF vacío")
}

func TestGenerateReceivingSlip_OrdenSinLineasPendientes(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator()
	order := ordenRecibida()
	order.Items = order.Items[:1]

	doc, err := gen.GenerateReceivingSlip(context.Background(), order)
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}
