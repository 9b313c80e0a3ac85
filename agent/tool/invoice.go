package tool

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
	"github.com/tanpawarit/Chative-Music-Store-Support/agent/musicdb"
)

const (
	ToolInvoicesByDate      = "get_invoices_by_customer_sorted_by_date"
	ToolInvoicesByUnitPrice = "get_invoices_sorted_by_unit_price"
	ToolEmployeeByInvoice   = "get_employee_by_invoice_and_customer"
)

type InvoiceEmployees struct {
	InvoiceID int                `json:"invoice_id"`
	Employees []musicdb.Employee `json:"employees"`
	Message   string             `json:"message,omitempty"`
}

// InvoiceTools are customer scoped: the customer id is read from the
// verified scope and is never accepted as an argument.
func InvoiceTools(repo musicdb.Repository) []Spec {
	return []Spec{
		{
			Name:           ToolInvoicesByDate,
			Desc:           "Look up all invoices of the verified customer, most recent first.",
			CustomerScoped: true,
			Run: func(ctx context.Context, _ Args, scope contractx.Scope) (any, error) {
				return repo.InvoicesByDate(ctx, *scope.CustomerID)
			},
		},
		{
			Name:           ToolInvoicesByUnitPrice,
			Desc:           "Look up the invoices of the verified customer sorted by the unit price of their line items, highest first.",
			CustomerScoped: true,
			Run: func(ctx context.Context, _ Args, scope contractx.Scope) (any, error) {
				return repo.InvoicesByUnitPrice(ctx, *scope.CustomerID)
			},
		},
		{
			Name:           ToolEmployeeByInvoice,
			Desc:           "Find the support employee associated with one of the verified customer's invoices.",
			CustomerScoped: true,
			Params: []Param{
				{Name: "invoice_id", Type: ParamInteger, Desc: "The invoice id", Required: true},
			},
			Run: func(ctx context.Context, args Args, scope contractx.Scope) (any, error) {
				invoiceID := args.Int("invoice_id")
				employees, err := repo.EmployeesForInvoice(ctx, invoiceID, *scope.CustomerID)
				if err != nil {
					return nil, err
				}
				if employees == nil {
					employees = []musicdb.Employee{}
				}
				out := InvoiceEmployees{InvoiceID: invoiceID, Employees: employees}
				if len(employees) == 0 {
					out.Message = fmt.Sprintf("No employee found for invoice ID %d and customer identifier %d.", invoiceID, *scope.CustomerID)
				}
				return out, nil
			},
		},
	}
}
