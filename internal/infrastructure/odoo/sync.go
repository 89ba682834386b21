package odoo

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Cotizador-api/internal/application/sales"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

var _ sales.OdooSync = (*Client)(nil)

// PushOrder crea (o reutiliza) el sale.order remoto del cliente y reemplaza sus líneas
// por las de la orden local. Devuelve el id remoto.
func (c *Client) PushOrder(ctx context.Context, in sales.OdooOrder) (int64, error) {
	if in.Order == nil || in.Customer == nil {
		return 0, errors.New("odoo: orden o cliente nulos")
	}
	partnerID, err := c.ensurePartner(ctx, in.Customer)
	if err != nil {
		return 0, err
	}

	orderID, err := c.ensureOrder(ctx, in.Order, partnerID)
	if err != nil {
		return 0, err
	}

	productIDs := make(map[string]int64, len(in.Products))
	for _, l := range in.Order.Lines {
		vals := map[string]any{
			"order_id": orderID,
			"name":     l.Name,
			"sequence": l.Sequence,
		}
		if l.DisplayType == entity.OrderLineSection {
			vals["display_type"] = "line_section"
		} else {
			if l.ProductID == nil {
				return 0, fmt.Errorf("odoo: línea %q sin producto", l.Name)
			}
			remote, ok := productIDs[*l.ProductID]
			if !ok {
				p := in.Products[*l.ProductID]
				if p == nil {
					return 0, fmt.Errorf("odoo: producto %s no cargado", *l.ProductID)
				}
				if remote, err = c.ensureProduct(ctx, p); err != nil {
					return 0, err
				}
				productIDs[*l.ProductID] = remote
			}
			vals["product_id"] = remote
			vals["product_uom_qty"] = l.Quantity.InexactFloat64()
			vals["price_unit"] = l.PriceUnit.InexactFloat64()
		}
		var lineID int64
		if err := c.execute(ctx, "sale.order.line", "create", []any{vals}, nil, &lineID); err != nil {
			return 0, fmt.Errorf("odoo: crear línea %q: %w", l.Name, err)
		}
	}
	log.Info().Str("order_id", in.Order.ID).Int64("odoo_id", orderID).Int("lines", len(in.Order.Lines)).Msg("odoo: orden enviada")
	return orderID, nil
}

// ensureOrder reutiliza el sale.order ya vinculado (borrando sus líneas) o crea uno nuevo.
func (c *Client) ensureOrder(ctx context.Context, order *entity.SaleOrder, partnerID int64) (int64, error) {
	if order.ExternalID != nil {
		found, err := c.search(ctx, "sale.order", []any{[]any{"id", "=", *order.ExternalID}})
		if err != nil {
			return 0, err
		}
		if found != 0 {
			lineIDs, err := c.searchAll(ctx, "sale.order.line", []any{[]any{"order_id", "=", found}})
			if err != nil {
				return 0, err
			}
			if len(lineIDs) > 0 {
				var ok bool
				if err := c.execute(ctx, "sale.order.line", "unlink", []any{toAny(lineIDs)}, nil, &ok); err != nil {
					return 0, fmt.Errorf("odoo: limpiar líneas: %w", err)
				}
			}
			var ok bool
			if err := c.execute(ctx, "sale.order", "write", []any{[]any{found}, map[string]any{"partner_id": partnerID}}, nil, &ok); err != nil {
				return 0, fmt.Errorf("odoo: actualizar orden: %w", err)
			}
			return found, nil
		}
		log.Warn().Int64("odoo_id", *order.ExternalID).Str("order_id", order.ID).Msg("odoo: orden remota no encontrada, se crea otra")
	}
	var id int64
	vals := map[string]any{"partner_id": partnerID, "client_order_ref": order.Name}
	if err := c.execute(ctx, "sale.order", "create", []any{vals}, nil, &id); err != nil {
		return 0, fmt.Errorf("odoo: crear orden: %w", err)
	}
	return id, nil
}

// ensurePartner busca el res.partner por RFC (o por nombre si no hay RFC) y lo crea si no existe.
func (c *Client) ensurePartner(ctx context.Context, cu *entity.Customer) (int64, error) {
	domain := []any{[]any{"name", "=", cu.Name}}
	if cu.TaxID != "" {
		domain = []any{[]any{"vat", "=", cu.TaxID}}
	}
	id, err := c.search(ctx, "res.partner", domain)
	if err != nil || id != 0 {
		return id, err
	}
	vals := map[string]any{"name": cu.Name}
	if cu.TaxID != "" {
		vals["vat"] = cu.TaxID
	}
	if cu.Email != "" {
		vals["email"] = cu.Email
	}
	if cu.Phone != "" {
		vals["phone"] = cu.Phone
	}
	if err := c.execute(ctx, "res.partner", "create", []any{vals}, nil, &id); err != nil {
		return 0, fmt.Errorf("odoo: crear cliente: %w", err)
	}
	return id, nil
}

// ensureProduct busca el product.product por código interno (o nombre) y lo crea como servicio.
func (c *Client) ensureProduct(ctx context.Context, p *entity.Product) (int64, error) {
	domain := []any{[]any{"name", "=", p.Name}}
	if p.DefaultCode != "" {
		domain = []any{[]any{"default_code", "=", p.DefaultCode}}
	}
	id, err := c.search(ctx, "product.product", domain)
	if err != nil || id != 0 {
		return id, err
	}
	vals := map[string]any{
		"name":       p.Name,
		"type":       "service",
		"list_price": p.ListPrice.InexactFloat64(),
	}
	if p.DefaultCode != "" {
		vals["default_code"] = p.DefaultCode
	}
	if err := c.execute(ctx, "product.product", "create", []any{vals}, nil, &id); err != nil {
		return 0, fmt.Errorf("odoo: crear producto %q: %w", p.Name, err)
	}
	return id, nil
}

// search primer id que cumple el dominio, 0 si no hay.
func (c *Client) search(ctx context.Context, model string, domain []any) (int64, error) {
	var ids []int64
	if err := c.execute(ctx, model, "search", []any{domain}, map[string]any{"limit": 1}, &ids); err != nil {
		return 0, fmt.Errorf("odoo: buscar %s: %w", model, err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

func (c *Client) searchAll(ctx context.Context, model string, domain []any) ([]int64, error) {
	var ids []int64
	if err := c.execute(ctx, model, "search", []any{domain}, nil, &ids); err != nil {
		return nil, fmt.Errorf("odoo: buscar %s: %w", model, err)
	}
	return ids, nil
}

func toAny(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
