package planning

import (
	"github.com/jhoicas/fulfillment-planner/internal/application/catalog"
	"github.com/jhoicas/fulfillment-planner/internal/application/dto"
	"github.com/jhoicas/fulfillment-planner/internal/domain/entity"
	"github.com/jhoicas/fulfillment-planner/internal/domain/pallet"
)

func toWorkOrderResponse(wo *entity.WorkOrder, caps map[string]int) *dto.WorkOrderResponse {
	return &dto.WorkOrderResponse{
		ID:          wo.ID,
		WeekStart:   wo.Week.Start.Format(entity.WeekLayout),
		WeekEnd:     wo.Week.End.Format(entity.WeekLayout),
		Status:      wo.Status,
		Ledgers:     toLedgerDTOs(wo.Ledgers, wo.Stores, caps),
		Stores:      toStoreDTOs(wo.Stores),
		Sources:     toSourceDTOs(wo.Sources),
		CreatedBy:   wo.CreatedBy,
		CreatedAt:   wo.CreatedAt,
		ConfirmedBy: wo.ConfirmedBy,
		ConfirmedAt: wo.ConfirmedAt,
		CompletedBy: wo.CompletedBy,
		CompletedAt: wo.CompletedAt,
		CancelledBy: wo.CancelledBy,
		CancelledAt: wo.CancelledAt,
		UpdatedAt:   wo.UpdatedAt,
	}
}

// toLedgerDTOs incluye tarimas necesarias para lo asignado cuando hay capacidad cacheada.
func toLedgerDTOs(ledgers []entity.ProductShortageLedger, stores []entity.StoreAllocation, caps map[string]int) []dto.ProductLedgerDTO {
	allocated := make(map[string]int)
	for _, s := range stores {
		for _, it := range s.Items {
			allocated[it.ProductID] += it.Allocated
		}
	}

	out := make([]dto.ProductLedgerDTO, 0, len(ledgers))
	for _, l := range ledgers {
		d := dto.ProductLedgerDTO{
			ProductID:      l.ProductID,
			OnHandSnapshot: l.OnHandSnapshot,
			IncomingSupply: l.IncomingSupply,
			TotalOrdered:   l.TotalOrdered,
			TotalAvailable: l.TotalAvailable,
			Shortage:       l.Shortage,
			Status:         l.Status,
		}
		for _, r := range l.Resolutions {
			d.Resolutions = append(d.Resolutions, dto.ShortageResolutionDTO{
				AddedQuantity: r.AddedQuantity,
				ResolvedBy:    r.ResolvedBy,
				ResolvedAt:    r.ResolvedAt,
				Notes:         r.Notes,
			})
		}
		if cpp, ok := caps[l.ProductID]; ok {
			d.PalletsNeeded = catalog.ToPalletsNeeded(pallet.PalletsNeeded(allocated[l.ProductID], cpp))
		}
		out = append(out, d)
	}
	return out
}

func toStoreDTOs(stores []entity.StoreAllocation) []dto.StoreAllocationDTO {
	out := make([]dto.StoreAllocationDTO, 0, len(stores))
	for _, s := range stores {
		d := dto.StoreAllocationDTO{
			StoreID:          s.StoreID,
			AllocationStatus: s.AllocationStatus,
			PickingProgress:  s.PickingProgress,
			StartedAt:        s.StartedAt,
			CompletedAt:      s.CompletedAt,
			Items:            make([]dto.AllocationItemDTO, 0, len(s.Items)),
		}
		for _, it := range s.Items {
			d.Items = append(d.Items, dto.AllocationItemDTO{
				ProductID: it.ProductID,
				Ordered:   it.Ordered,
				Allocated: it.Allocated,
				Picked:    it.Picked,
				PickedBy:  it.PickedBy,
				PickedAt:  it.PickedAt,
			})
		}
		out = append(out, d)
	}
	return out
}

func toSourceDTOs(sources []entity.SourceRef) []dto.SourceRefDTO {
	out := make([]dto.SourceRefDTO, 0, len(sources))
	for _, s := range sources {
		out = append(out, dto.SourceRefDTO{SourceType: s.SourceType, SourceID: s.SourceID})
	}
	return out
}
