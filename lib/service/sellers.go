package service

import (
	"context"

	"github.com/invoicesme/invoicehub.go/common"
	"github.com/invoicesme/invoicehub.go/db/models"
)

// AddVerifiedSeller puts an address on the originator allow-list. The call
// is idempotent, adding an address twice is not an error.
func (svc *InvoiceHubService) AddVerifiedSeller(ctx context.Context, address string) (*models.VerifiedSeller, error) {
	seller := &models.VerifiedSeller{Address: address}
	_, err := svc.DB.NewInsert().Model(seller).On("CONFLICT (address) DO NOTHING").Exec(ctx)
	if err != nil {
		return nil, err
	}
	// re-read so the stored row is returned whether or not it already existed
	err = svc.DB.NewSelect().Model(seller).Where("address = ?", address).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	svc.publishEvent(models.InvoiceEvent{Type: common.EventTypeSellerVerified, Holder: address})
	return seller, nil
}

func (svc *InvoiceHubService) IsVerifiedSeller(ctx context.Context, address string) (bool, error) {
	return svc.DB.NewSelect().Model((*models.VerifiedSeller)(nil)).Where("address = ?", address).Exists(ctx)
}
