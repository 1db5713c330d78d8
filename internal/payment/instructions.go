package payment

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Method is the mobile wallet used to prepay the delivery charge.
// Empty means nothing is prepaid and the full amount is collected on delivery.
type Method string

const (
	MethodNone  Method = ""
	MethodBkash Method = "bkash"
	MethodNogod Method = "nogod"
)

var ErrUnsupportedMethod = errors.New("payment method must be bkash or nogod")

// ParseMethod accepts the wallet names case-insensitively. "nagad" is the brand spelling of nogod.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return MethodNone, nil
	case "bkash":
		return MethodBkash, nil
	case "nogod", "nagad":
		return MethodNogod, nil
	}
	return MethodNone, ErrUnsupportedMethod
}

func (m Method) IsWallet() bool {
	return m == MethodBkash || m == MethodNogod
}

var InstructionMap = map[Method][]string{
	MethodNone: {
		"Your order will be delivered to {{address}}",
		"Keep {{total}} BDT in cash ready when the courier arrives",
		"Pay the courier directly and keep the receipt",
	},

	MethodBkash: {
		"Delivery charge of {{delivery}} BDT was sent with bKash to {{wallet}}",
		"Your transaction ID is {{transaction_id}}, keep it until the order is delivered",
		"The seller confirms the payment before approving the order",
		"Pay the remaining {{due}} BDT in cash when the courier arrives",
	},

	MethodNogod: {
		"Delivery charge of {{delivery}} BDT was sent with Nagad to {{wallet}}",
		"Your transaction ID is {{transaction_id}}, keep it until the order is delivered",
		"The seller confirms the payment before approving the order",
		"Pay the remaining {{due}} BDT in cash when the courier arrives",
	},
}

func GetInstructions(method Method) []string {
	if steps, ok := InstructionMap[method]; ok {
		return steps
	}

	return []string{
		"Follow the payment instructions sent by the seller",
	}
}

type InstructionVars map[string]string

func InjectVariables(
	steps []string,
	vars InstructionVars,
) []string {
	result := make([]string, 0, len(steps))

	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(
				updated,
				"{{"+key+"}}",
				value,
			)
		}
		result = append(result, updated)
	}

	return result
}

// Details is what a placed order contributes to its payment instructions.
type Details struct {
	Method        Method
	Total         decimal.Decimal
	Delivery      decimal.Decimal
	Wallet        string
	TransactionID string
	Address       string
}

// BuildInstructions renders the steps for an order. The cash due excludes a prepaid delivery charge.
func BuildInstructions(d Details) []string {
	due := d.Total
	if d.Method.IsWallet() {
		due = d.Total.Sub(d.Delivery)
	}

	return InjectVariables(GetInstructions(d.Method), InstructionVars{
		"total":          d.Total.StringFixed(2),
		"delivery":       d.Delivery.StringFixed(2),
		"due":            due.StringFixed(2),
		"wallet":         d.Wallet,
		"transaction_id": d.TransactionID,
		"address":        d.Address,
	})
}
