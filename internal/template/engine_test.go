package template

import "testing"

func TestRenderSubstitution(t *testing.T) {
	got := Render(Template{Subject: "Hi {{name}}", Body: "Ticket {{ticketNumber}} is {{status}}"}, map[string]string{
		"name":         "Ana",
		"ticketNumber": "PQR-0001",
		"status":       "RESOLVED",
	})
	if got.Subject != "Hi Ana" {
		t.Errorf("subject = %q, want %q", got.Subject, "Hi Ana")
	}
	if got.Body != "Ticket PQR-0001 is RESOLVED" {
		t.Errorf("body = %q", got.Body)
	}
}

func TestRenderMissingKeyBecomesEmpty(t *testing.T) {
	got := Render(Template{Body: "hello {{nobody}}!"}, map[string]string{})
	if got.Body != "hello !" {
		t.Errorf("body = %q, want %q", got.Body, "hello !")
	}
}

func TestRenderConditionals(t *testing.T) {
	tpl := Template{Body: "{{#if urgent}}URGENT{{/if}} ticket"}

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"true", "true", "URGENT ticket"},
		{"nonempty", "yes", "URGENT ticket"},
		{"false", "false", " ticket"},
		{"zero", "0", " ticket"},
		{"empty", "", " ticket"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Render(tpl, map[string]string{"urgent": tc.value})
			if got.Body != tc.want {
				t.Errorf("body = %q, want %q", got.Body, tc.want)
			}
		})
	}
}

func TestRenderConditionalWithInnerVariables(t *testing.T) {
	tpl := Template{Body: "{{#if comment}}Note: {{comment}}{{/if}}"}
	got := Render(tpl, map[string]string{"comment": "fixed"})
	if got.Body != "Note: fixed" {
		t.Errorf("body = %q", got.Body)
	}
	got = Render(tpl, map[string]string{})
	if got.Body != "" {
		t.Errorf("body = %q, want empty", got.Body)
	}
}

func TestRenderUnmatchedBracesStayLiteral(t *testing.T) {
	cases := []string{
		"dangling {{open",
		"close}} only",
		"{{#if orphan}} no close",
		"{{bad key}}",
	}
	for _, in := range cases {
		got := Render(Template{Body: in}, map[string]string{"open": "x", "orphan": "y"})
		if got.Body != in {
			t.Errorf("Render(%q) = %q, want unchanged", in, got.Body)
		}
	}
}
