package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type Customer struct {
	Name  string
	Email string
}

func (c Customer) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	// Bare addresses only; display-name forms would slip past the rate gate.
	if err := validate.Var(c.Email, "required,email"); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, c.Email)
	}
	return nil
}

// OrderRequest is either a QuickOrder or a CustomOrder.
type OrderRequest interface {
	OrderType() OrderType
	Buyer() Customer
	DisplayCurrency() Currency
	Validate() error
	isOrderRequest()
}

type QuickOrder struct {
	Customer Customer
	Currency Currency
}

func (QuickOrder) OrderType() OrderType        { return TypeQuick }
func (q QuickOrder) Buyer() Customer           { return q.Customer }
func (q QuickOrder) DisplayCurrency() Currency { return q.Currency }
func (QuickOrder) isOrderRequest()             {}

func (q QuickOrder) Validate() error {
	if _, err := ParseCurrency(string(q.Currency)); err != nil {
		return err
	}
	return q.Customer.validate()
}

// Brief is what the customer asks the writer for.
type Brief struct {
	Title        string
	Mood         string
	Instructions string
}

type CustomOrder struct {
	Customer Customer
	Currency Currency
	Budget   decimal.Decimal
	Brief    Brief
}

func (CustomOrder) OrderType() OrderType        { return TypeCustom }
func (c CustomOrder) Buyer() Customer           { return c.Customer }
func (c CustomOrder) DisplayCurrency() Currency { return c.Currency }
func (CustomOrder) isOrderRequest()             {}

func (c CustomOrder) Validate() error {
	if _, err := ParseCurrency(string(c.Currency)); err != nil {
		return err
	}
	if err := c.Customer.validate(); err != nil {
		return err
	}
	if !c.Budget.IsPositive() {
		return fmt.Errorf("%w: budget must be positive", ErrInvalidBudget)
	}
	if len(c.Brief.Title) > 200 || len(c.Brief.Mood) > 100 || len(c.Brief.Instructions) > 5000 {
		return fmt.Errorf("%w: brief is too long", ErrInvalidInput)
	}
	return nil
}

var (
	_ OrderRequest = QuickOrder{}
	_ OrderRequest = CustomOrder{}
)
