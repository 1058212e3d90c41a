package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrops-br/storefront/internal/app/dto"
	"github.com/mrops-br/storefront/internal/domain"
)

// ViewDetails opens the modal on a product. Unknown products are ignored.
func (s *Storefront) ViewDetails(ctx context.Context, productID int) error {
	product, err := s.catalog.FindByID(ctx, productID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.modal = s.renderDetails(*product)
	return nil
}

// CloseModal hides the details modal
func (s *Storefront) CloseModal() {
	s.modal = nil
}

func (s *Storefront) renderDetails(p domain.Product) *dto.DetailsView {
	stock := "Out of stock"
	if p.InStock() {
		stock = fmt.Sprintf("%d available", p.Stock)
	}

	return &dto.DetailsView{
		ID:          p.ID,
		Name:        p.Name,
		Image:       p.Image,
		Stars:       Stars(FilledStars(p)),
		PriceLabel:  FormatPrice(p.Price),
		StockLabel:  stock,
		Description: fmt.Sprintf("High-quality %s curated for %s.", strings.ToLower(p.Name), s.opts.StoreName),
		CanAdd:      p.Stock != 0,
	}
}
