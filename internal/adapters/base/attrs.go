package base

import (
	"context"

	"github.com/kirjasto/ils/internal/model"
	"github.com/kirjasto/ils/internal/rules"
)

// ItemAttributes builds the rule-engine attribute set for one holding
// and patron. Nil arguments contribute nothing; absent keys match the
// empty string on the rule side.
func ItemAttributes(h *model.Holding, patron *model.Patron) rules.Attributes {
	attrs := rules.Attributes{}
	if h != nil {
		attrs["lib"] = h.Library
		attrs["loc"] = h.Location
		attrs["policy"] = h.Policy
		if h.Available {
			attrs["avail"] = "y"
			attrs["unavail"] = "n"
		} else {
			attrs["avail"] = "n"
			attrs["unavail"] = "y"
		}
		attrs["status"] = string(h.Status)
	}
	if patron != nil {
		attrs["group"] = patron.Group
	}
	return attrs
}

// HoldAttributes assembles rule-engine inputs for a hold context,
// fetching the target record's holdings through the adapter's own
// GetHolding when the rules need item attributes. With no rules
// configured the fetch is skipped entirely. The request's level,
// "copy" when it names an item and "title" otherwise, is added on
// top of the item attributes.
func (h *Helper) HoldAttributes(ctx context.Context, patron *model.Patron, req *model.HoldRequest,
	fetch func(context.Context, string, *model.Patron) (*model.HoldingsResult, error)) (rules.Attributes, error) {

	if req == nil || req.RecordID == "" || h.Rules == nil {
		attrs := ItemAttributes(nil, patron)
		if req != nil {
			attrs["level"] = holdLevel(req)
		}
		return attrs, nil
	}
	res, err := fetch(ctx, req.RecordID, patron)
	if err != nil {
		return nil, err
	}
	item := FirstItem(res)
	if req.ItemID != "" {
		for _, holding := range res.Holdings {
			if holding.ItemID == req.ItemID {
				item = holding
				break
			}
		}
	}
	attrs := ItemAttributes(item, patron)
	attrs["level"] = holdLevel(req)
	return attrs, nil
}

// holdLevel distinguishes copy-level holds, which target one item,
// from title-level holds on the whole record.
func holdLevel(req *model.HoldRequest) string {
	if req.ItemID != "" {
		return "copy"
	}
	return "title"
}

// FirstItem returns the first non-summary holding of a result, or nil.
func FirstItem(res *model.HoldingsResult) *model.Holding {
	if res == nil {
		return nil
	}
	for _, h := range res.Holdings {
		if !h.Summary {
			return h
		}
	}
	return nil
}
