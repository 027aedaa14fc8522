package polymarket

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestListishShapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Listish
	}{
		{"json array", `["Yes","No"]`, Listish{"Yes", "No"}},
		{"array in string", `"[\"Yes\", \"No\"]"`, Listish{"Yes", "No"}},
		{"numbers in array", `[0.65, 0.35]`, Listish{"0.65", "0.35"}},
		{"comma string", `"Yes, No"`, Listish{"Yes", "No"}},
		{"null", `null`, nil},
		{"empty string", `""`, nil},
		{"empty array", `[]`, Listish{}},
		{"malformed array in string", `"[broken"`, Listish{"[broken"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got Listish
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestListishInsideStruct(t *testing.T) {
	var m GammaMarket
	payload := `{
		"question": "Who wins?",
		"outcomes": "[\"Alice\", \"Bob\"]",
		"outcomePrices": "[\"0.6\", \"0.4\"]",
		"clobTokenIds": "[\"111\", \"222\"]"
	}`
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(m.Outcomes, Listish{"Alice", "Bob"}) {
		t.Errorf("outcomes = %#v", m.Outcomes)
	}
	if !reflect.DeepEqual(m.OutcomePrices, Listish{"0.6", "0.4"}) {
		t.Errorf("prices = %#v", m.OutcomePrices)
	}
	if !reflect.DeepEqual(m.ClobTokenIDs, Listish{"111", "222"}) {
		t.Errorf("token ids = %#v", m.ClobTokenIDs)
	}
}
