package commands

import "github.com/aretw0/tauribridge/pkg/locator"

// locatorArgs is embedded by every command that targets an element.
type locatorArgs struct {
	By    string `mapstructure:"by"`
	Value string `mapstructure:"value"`
}

func locatorParams(extra ...Param) []Param {
	params := []Param{
		{Name: "by", Type: TypeString, Description: "Locator strategy to find element", Required: true, Enum: locator.Strategies()},
		{Name: "value", Type: TypeString, Description: "Value for the locator strategy", Required: true},
		timeoutParam("Maximum time to wait for element in milliseconds"),
	}
	return append(params, extra...)
}

func timeoutParam(desc string) Param {
	return Param{Name: "timeout", Type: TypeNumber, Description: desc}
}

func str(name, desc string) Param {
	return Param{Name: name, Type: TypeString, Description: desc, Required: true}
}

func num(name, desc string) Param {
	return Param{Name: name, Type: TypeNumber, Description: desc, Required: true}
}

func optNum(name, desc string) Param {
	return Param{Name: name, Type: TypeNumber, Description: desc}
}
