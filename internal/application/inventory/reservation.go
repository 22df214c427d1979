package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// ReservationManager retiene y libera stock para órdenes sin confirmar.
// Comparte el bloqueo por producto del ledger, por lo que una reserva nunca
// ve un available_stock desactualizado. Las reservas no pasan por el log de
// operaciones: no cambian el stock físico.
type ReservationManager struct {
	ledger *StockLedger
	log    zerolog.Logger
}

// NewReservationManager construye el gestor de reservas sobre el ledger.
func NewReservationManager(ledger *StockLedger, log zerolog.Logger) *ReservationManager {
	return &ReservationManager{
		ledger: ledger,
		log:    log.With().Str("component", "reservations").Logger(),
	}
}

// ReservationInput entrada de Reserve y Release.
type ReservationInput struct {
	ProductID       string
	Quantity        int64
	ActorID         string
	ReferenceNumber string
}

// ReleaseResult resultado de Release: Released puede ser menor que Requested.
type ReleaseResult struct {
	Stock     *entity.StockRecord
	Requested int64
	Released  int64
}

// Reserve retiene Quantity unidades. Falla con domain.ErrInsufficientStock si
// Quantity > available_stock, sin cambiar nada.
func (m *ReservationManager) Reserve(ctx context.Context, in ReservationInput) (*entity.StockRecord, error) {
	rec, err := m.ledger.mutate(ctx, "inventory.Reserve", in.ProductID, func(s *mutationScope) error {
		return inv.Reserve(s.rec, in.Quantity, s.now)
	})
	if err != nil {
		m.log.Debug().Err(err).
			Str("product_id", in.ProductID).
			Int64("quantity", in.Quantity).
			Str("reference_number", in.ReferenceNumber).
			Msg("reserva rechazada")
		return nil, err
	}
	m.log.Info().
		Str("product_id", in.ProductID).
		Int64("quantity", in.Quantity).
		Int64("available_stock", rec.AvailableStock).
		Str("reference_number", in.ReferenceNumber).
		Str("actor_id", in.ActorID).
		Msg("stock reservado")
	return rec, nil
}

// Release libera min(Quantity, reserved_stock) unidades.
func (m *ReservationManager) Release(ctx context.Context, in ReservationInput) (*ReleaseResult, error) {
	var released int64
	rec, err := m.ledger.mutate(ctx, "inventory.Release", in.ProductID, func(s *mutationScope) error {
		var err error
		released, err = inv.Release(s.rec, in.Quantity, s.now)
		return err
	})
	if err != nil {
		return nil, err
	}
	ev := m.log.Info()
	if released < in.Quantity {
		ev = m.log.Warn()
	}
	ev.Str("product_id", in.ProductID).
		Int64("requested", in.Quantity).
		Int64("released", released).
		Str("reference_number", in.ReferenceNumber).
		Str("actor_id", in.ActorID).
		Msg("reserva liberada")
	return &ReleaseResult{Stock: rec, Requested: in.Quantity, Released: released}, nil
}
