package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// supplyFields are the editable supply inputs: name, label, input type.
var supplyFields = [][3]string{
	{"name", "Name", "text"},
	{"category", "Category", "text"},
	{"quantity", "Quantity", "number"},
	{"unit", "Unit", "text"},
	{"threshold", "Restock threshold", "number"},
	{"supplier", "Supplier", "text"},
	{"price", "Unit price", "number"},
}

// SuppliesPage renders the inventory screen. Rows are loaded and edited by
// /static/app.js through /api/supplies.
func SuppliesPage() templ.Component {
	return Layout("Supplies", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="card"><h1>Supplies</h1>`,
			`<form id="supply-filters" class="toolbar">`,
			`<input type="search" name="name" placeholder="Name contains">`,
			`<input type="search" name="supplier" placeholder="Supplier contains">`,
			`<label class="inline"><input type="checkbox" name="lowStock" value="true"> Low stock only</label>`,
			`<button type="submit">Filter</button></form>`,
			`<p class="error" id="supplies-error" role="alert" hidden></p>`,
			`<table id="supplies-table"><thead><tr>`,
			`<th>Name</th><th>Category</th><th>Qty</th><th>Unit</th><th>Threshold</th>`,
			`<th>Supplier</th><th>Price</th><th></th></tr></thead>`,
			`<tbody id="supplies-body"></tbody></table></section>`)

		h.raw(`<section class="card"><h2 id="supply-form-title">Add supply</h2>`,
			`<form id="supply-form" novalidate><input type="hidden" name="id">`)
		for _, f := range supplyFields {
			h.raw(`<label>`)
			h.text(f[1])
			h.raw(`<input name="`)
			h.text(f[0])
			h.raw(`" type="`)
			h.text(f[2])
			h.raw(`"`)
			if f[2] == "number" {
				h.raw(` min="0"`)
				if f[0] == "price" {
					h.raw(` step="0.01"`)
				}
			}
			if f[0] == "name" {
				h.raw(` required`)
			}
			h.raw(`></label>`)
		}
		h.raw(`<label>Notes<textarea name="notes" rows="2"></textarea></label>`,
			`<p class="error" role="alert" hidden></p>`,
			`<button type="submit">Save</button> <button type="reset" class="secondary">Clear</button>`,
			`</form></section>`)
		return h.err
	}))
}
