package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// AssembledLine is one validated, server-priced order line ready to be
// persisted. Variant is nil for legacy lines that reference a product with
// no variant selection.
type AssembledLine struct {
	Product     *catalog.Product
	Variant     *catalog.Variant
	ProductName string
	Quantity    int
	UnitPrice   valueobject.Money
	Subtotal    valueobject.Money
}

// Assembly is the result of a successful assembly pass
type Assembly struct {
	Lines    []AssembledLine
	Subtotal valueobject.Money
}

// LineError attaches a failing line's position to its cause. Index is the
// position of the line's first occurrence in the submitted items.
type LineError struct {
	Index int
	Err   error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Index, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// AssemblyError reports every failing line when the assembler runs in
// collect-all mode
type AssemblyError struct {
	Lines []LineError
}

func (e *AssemblyError) Error() string {
	msgs := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		msgs = append(msgs, l.Error())
	}
	return fmt.Sprintf("order assembly failed: %s", strings.Join(msgs, "; "))
}

// Unwrap exposes the first failing line so errors.As still resolves a
// DomainError for status mapping
func (e *AssemblyError) Unwrap() error {
	if len(e.Lines) == 0 {
		return nil
	}
	return e.Lines[0].Err
}

// Assembler validates and prices order lines against the catalog. It reads
// and computes only; persisting the result and decrementing stock belong to
// the checkout service. The repository passed to Assemble decides the read
// consistency: the commit path hands in a transactional repository whose
// ForUpdate finders lock rows, a preview path could hand in a plain one.
type Assembler struct {
	collectAll bool
}

// NewAssembler creates an assembler. With collectAll every failing line is
// gathered into an AssemblyError; otherwise the first failure wins.
func NewAssembler(collectAll bool) *Assembler {
	return &Assembler{collectAll: collectAll}
}

// Assemble runs the validating pricing pass over the requested items
func (a *Assembler) Assemble(ctx context.Context, products catalog.ProductRepository, items []OrderItemInput) (*Assembly, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}

	assembly := &Assembly{
		Lines:    make([]AssembledLine, 0, len(items)),
		Subtotal: valueobject.ZeroARS(),
	}
	var lineErrors []LineError

	for _, m := range mergeItems(items) {
		line, err := a.assembleLine(ctx, products, m.OrderItemInput)
		if err != nil {
			if !a.collectAll {
				return nil, err
			}
			lineErrors = append(lineErrors, LineError{Index: m.index, Err: err})
			continue
		}
		assembly.Lines = append(assembly.Lines, *line)
		assembly.Subtotal = assembly.Subtotal.MustAdd(line.Subtotal)
	}

	if len(lineErrors) > 0 {
		return nil, &AssemblyError{Lines: lineErrors}
	}
	return assembly, nil
}

type mergedItem struct {
	OrderItemInput
	index int
}

// mergeItems folds lines referencing the same product and variant into one,
// summing quantities. Each duplicate line would otherwise check stock
// against the same starting value and together they could oversell. Lines
// with a non-positive quantity stay separate so each still reports.
func mergeItems(items []OrderItemInput) []mergedItem {
	type lineKey struct {
		productID uuid.UUID
		variantID uuid.UUID
	}
	merged := make([]mergedItem, 0, len(items))
	seen := make(map[lineKey]int, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			merged = append(merged, mergedItem{OrderItemInput: item, index: i})
			continue
		}
		key := lineKey{productID: item.ProductID}
		if item.VariantID != nil {
			key.variantID = *item.VariantID
		}
		if j, ok := seen[key]; ok {
			merged[j].Quantity += item.Quantity
			continue
		}
		seen[key] = len(merged)
		merged = append(merged, mergedItem{OrderItemInput: item, index: i})
	}
	return merged
}

func (a *Assembler) assembleLine(ctx context.Context, products catalog.ProductRepository, item OrderItemInput) (*AssembledLine, error) {
	if item.Quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	product, err := products.FindByIDForUpdate(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, shared.ErrProductNotFound
	}

	if item.VariantID == nil {
		return a.assembleLegacyLine(product, item)
	}

	variant, err := products.FindVariantForUpdate(ctx, *item.VariantID, product.ID)
	if err != nil {
		return nil, err
	}
	variant.Product = product
	if err := variant.CheckStock(item.Quantity); err != nil {
		return nil, err
	}

	unitPrice, err := variant.FinalPrice()
	if err != nil {
		return nil, err
	}
	return &AssembledLine{
		Product:     product,
		Variant:     variant,
		ProductName: variant.DisplayName(),
		Quantity:    item.Quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.MultiplyByInt(int64(item.Quantity)),
	}, nil
}

// assembleLegacyLine prices an item with no variant selection. The stock
// check runs against the product's aggregate active stock; no variant is
// decremented for these lines.
func (a *Assembler) assembleLegacyLine(product *catalog.Product, item OrderItemInput) (*AssembledLine, error) {
	if !product.HasAvailableStock(item.Quantity) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s. Available: %d", product.Name, product.AvailableStock()))
	}
	unitPrice := product.BasePriceMoney()
	return &AssembledLine{
		Product:     product,
		ProductName: product.Name,
		Quantity:    item.Quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.MultiplyByInt(int64(item.Quantity)),
	}, nil
}
