package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vsinha/labstock/pkg/application/services"
	"github.com/vsinha/labstock/pkg/domain/entities"
)

const (
	fieldIdentifier = iota
	fieldQuantity
	fieldDate
	fieldOtherKey
	fieldCategory
	fieldManufacturer
	fieldExpiration
	fieldThreshold
	fieldOrderQty
	fieldCount
)

// baseFields are shown until a receipt for an unknown item asks for details
const baseFields = fieldOtherKey

// receiveForm is the Receive Shipment tab
type receiveForm struct {
	identifier   entities.IdentifierField
	inputs       []textinput.Model
	labels       []string
	focus        int
	needsDetails bool
}

func newReceiveForm(identifier entities.IdentifierField) receiveForm {
	identifierLabel, otherLabel := "SKU", "Item Name"
	if identifier == entities.ByName {
		identifierLabel, otherLabel = "Item Name", "SKU"
	}

	labels := make([]string, fieldCount)
	labels[fieldIdentifier] = identifierLabel
	labels[fieldQuantity] = "Quantity Received"
	labels[fieldDate] = "Date Received"
	labels[fieldOtherKey] = otherLabel
	labels[fieldCategory] = "Item Category"
	labels[fieldManufacturer] = "Manufacturer"
	labels[fieldExpiration] = "Expiration Date"
	labels[fieldThreshold] = "Reorder Threshold"
	labels[fieldOrderQty] = "Order Quantity"

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 32
		inputs[i] = ti
	}
	inputs[fieldQuantity].Placeholder = "1"
	inputs[fieldDate].Placeholder = "YYYY-MM-DD (today)"
	inputs[fieldExpiration].Placeholder = "YYYY-MM-DD (date received)"
	inputs[fieldThreshold].Placeholder = "default"
	inputs[fieldOrderQty].Placeholder = "default"

	return receiveForm{
		identifier: identifier,
		inputs:     inputs,
		labels:     labels,
	}
}

func (f *receiveForm) visible() int {
	if f.needsDetails {
		return fieldCount
	}
	return baseFields
}

func (f *receiveForm) focusField(i int) tea.Cmd {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *receiveForm) blur() {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
}

func (f *receiveForm) next() tea.Cmd {
	return f.focusField((f.focus + 1) % f.visible())
}

func (f *receiveForm) prev() tea.Cmd {
	return f.focusField((f.focus + f.visible() - 1) % f.visible())
}

func (f *receiveForm) onLastField() bool {
	return f.focus == f.visible()-1
}

// askForDetails reveals the new item fields
func (f *receiveForm) askForDetails() tea.Cmd {
	f.needsDetails = true
	return f.focusField(fieldOtherKey)
}

func (f *receiveForm) reset() {
	for j := range f.inputs {
		f.inputs[j].SetValue("")
	}
	f.needsDetails = false
}

func (f *receiveForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *receiveForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// request builds a receipt from the form. Parse errors are reported here,
// the remaining validation belongs to the receiver.
func (f *receiveForm) request() (services.ReceiveRequest, error) {
	qty, err := parseQuantity(f.labels[fieldQuantity], f.value(fieldQuantity), 1)
	if err != nil {
		return services.ReceiveRequest{}, err
	}
	received, err := parseDate(f.labels[fieldDate], f.value(fieldDate))
	if err != nil {
		return services.ReceiveRequest{}, err
	}

	req := services.ReceiveRequest{
		Identifier:   f.value(fieldIdentifier),
		Quantity:     qty,
		ReceivedDate: received,
	}
	if !f.needsDetails {
		return req, nil
	}

	expiration, err := parseDate(f.labels[fieldExpiration], f.value(fieldExpiration))
	if err != nil {
		return services.ReceiveRequest{}, err
	}
	threshold, err := parseQuantity(f.labels[fieldThreshold], f.value(fieldThreshold), 0)
	if err != nil {
		return services.ReceiveRequest{}, err
	}
	orderQty, err := parseQuantity(f.labels[fieldOrderQty], f.value(fieldOrderQty), 0)
	if err != nil {
		return services.ReceiveRequest{}, err
	}

	details := &services.NewItemDetails{
		Category:         f.value(fieldCategory),
		Manufacturer:     f.value(fieldManufacturer),
		ExpirationDate:   expiration,
		ReorderThreshold: threshold,
		OrderQuantity:    orderQty,
	}
	if f.identifier == entities.ByName {
		details.SKU = f.value(fieldOtherKey)
	} else {
		details.Name = f.value(fieldOtherKey)
	}
	req.Details = details
	return req, nil
}

func (f *receiveForm) view(s Styles) string {
	var b strings.Builder
	for i := 0; i < f.visible(); i++ {
		if i == fieldOtherKey {
			b.WriteString("\n" + s.Info.Render("New item details") + "\n")
		}
		b.WriteString(s.Label.Render(f.labels[i]) + f.inputs[i].View() + "\n")
	}
	return b.String()
}

func parseQuantity(label, value string, fallback entities.Quantity) (entities.Quantity, error) {
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", label)
	}
	return entities.Quantity(n), nil
}

func parseDate(label, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(entities.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a YYYY-MM-DD date", label)
	}
	return t, nil
}
