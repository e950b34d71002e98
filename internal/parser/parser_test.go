package parser

import (
	"testing"

	"github.com/chriserin/smartui/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSL_HomePage(t *testing.T) {
	content := []byte("Host: http://x\n\nPage Home\nexpected:\n - Title: \"Welcome\"\naction:\n type: Click\n target: Go")
	sc, err := Parse("home.txt", content)
	require.NoError(t, err)

	assert.Equal(t, "http://x", sc.Host)
	assert.Empty(t, sc.Features)
	require.Len(t, sc.Pages, 1)
	assert.Equal(t, "Home", sc.Pages[0].Name)
	assert.Equal(t, []scenario.ExpectedElement{{Target: "Title", Value: "Welcome"}}, sc.Pages[0].Expected)
	assert.Equal(t, scenario.ClickAction{Target: "Go"}, sc.Pages[0].Action)
}

func TestParseDSL_FullScenario(t *testing.T) {
	content := []byte(`// checkout flow
Host: https://shop.example.com/cart?id=7

Features:
  - newCheckout:
    on:
    enable: true
    region: "eu-west"
    rollout: 50
  - darkMode:
    enable: false

Page Cart
expected:
  - Total: "$10.00"
  - Coupon: ""
action:
  type: Enter
  target-field: Coupon
  value: SAVE10

Page Shipping
action:
  type: Submit
  fields:
    - First Name: Ada
    - Zip: "02139"
    - Notes: leave at 10:30
`)
	sc, err := Parse("checkout.scenario", content)
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/cart?id=7", sc.Host)
	require.Len(t, sc.Features, 2)
	assert.Equal(t, scenario.Feature{
		Name:    "newCheckout",
		Enabled: true,
		Context: map[string]string{"region": "eu-west", "rollout": "50"},
	}, sc.Features["newCheckout"])
	assert.False(t, sc.Features["darkMode"].Enabled)
	assert.Empty(t, sc.Features["darkMode"].Context)

	require.Len(t, sc.Pages, 2)
	assert.Equal(t, []scenario.ExpectedElement{
		{Target: "Total", Value: "$10.00"},
		{Target: "Coupon", Value: ""},
	}, sc.Pages[0].Expected)
	assert.Equal(t, scenario.EnterAction{TargetField: "Coupon", Value: "SAVE10"}, sc.Pages[0].Action)

	assert.Empty(t, sc.Pages[1].Expected)
	assert.Equal(t, scenario.SubmitAction{Fields: []scenario.Field{
		{Name: "First Name", Value: "Ada"},
		{Name: "Zip", Value: "02139"},
		{Name: "Notes", Value: "leave at 10:30"},
	}}, sc.Pages[1].Action)
}

func TestParseDSL_SubmitWithoutFields(t *testing.T) {
	content := []byte(`Host: http://x
Page Confirm
action:
  type: Submit
`)
	sc, err := Parse("confirm.txt", content)
	require.NoError(t, err)
	require.Len(t, sc.Pages, 1)
	submit, ok := sc.Pages[0].Action.(scenario.SubmitAction)
	require.True(t, ok)
	assert.NotNil(t, submit.Fields)
	assert.Empty(t, submit.Fields)
}

func TestParseDSL_EmptyPagesAllowed(t *testing.T) {
	sc, err := Parse("empty.txt", []byte("Host: http://x\n"))
	require.NoError(t, err)
	assert.NotNil(t, sc.Pages)
	assert.Empty(t, sc.Pages)
	assert.NotNil(t, sc.Features)
}

func TestParseDSL_MissingHost(t *testing.T) {
	content := []byte(`Page Home
action:
  type: Click
  target: Go
`)
	sc, err := Parse("nohost.txt", content)
	assert.Nil(t, sc)

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Message, "missing Host")
}

func TestParseDSL_BlankHost(t *testing.T) {
	_, err := Parse("blank.txt", []byte("Host:   \n"))
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Line)
}

func TestParseDSL_PageWithoutAction(t *testing.T) {
	content := []byte(`Host: http://x

Page Home
expected:
  - Title: Welcome
`)
	_, err := Parse("noaction.txt", content)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, `page "Home" has no action`, ferr.Message)
	assert.Equal(t, 3, ferr.Line)
}

func TestParseDSL_UnknownActionType(t *testing.T) {
	content := []byte(`Host: http://x
Page Home
action:
  type: Hover
  target: Menu
`)
	_, err := Parse("hover.txt", content)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Message, `"Hover"`)
	assert.Contains(t, ferr.Message, "Click, Enter, Submit")
}

func TestParseDSL_UnrecognizedLine(t *testing.T) {
	content := []byte(`Host: http://x

Page Home
expected:
  - Title: Welcome
this is not valid
action:
  type: Click
  target: Go
`)
	_, err := Parse("bad.txt", content)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 6, ferr.Line)
	assert.Contains(t, err.Error(), "bad.txt:6")
}

func TestParseDSL_LineBeforeAnyBlock(t *testing.T) {
	_, err := Parse("stray.txt", []byte("hello\nHost: http://x\n"))
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Line)
}

func TestParseDSL_MalformedExpected(t *testing.T) {
	content := []byte(`Host: http://x
Page Home
expected:
  - Title
action:
  type: Click
  target: Go
`)
	_, err := Parse("bad.txt", content)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 4, ferr.Line)
	assert.Contains(t, ferr.Message, "invalid expected element")
}

func TestParseDSL_OrderErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		message string
	}{
		{
			name:    "duplicate host",
			content: "Host: http://x\nHost: http://y\n",
			line:    2,
			message: "duplicate Host",
		},
		{
			name:    "host after page",
			content: "Page A\naction:\n  type: Click\n  target: Go\nHost: http://x\n",
			line:    5,
			message: "Host must appear before",
		},
		{
			name:    "features after page",
			content: "Host: http://x\nPage A\naction:\n  type: Click\n  target: Go\nFeatures:\n",
			line:    6,
			message: "Features must appear before",
		},
		{
			name:    "second action",
			content: "Host: http://x\nPage A\naction:\n  type: Click\n  target: Go\naction:\n",
			line:    6,
			message: "already has an action",
		},
		{
			name:    "duplicate action key",
			content: "Host: http://x\nPage A\naction:\n  type: Click\n  type: Click\n",
			line:    5,
			message: "duplicate type",
		},
		{
			name:    "bad enable",
			content: "Host: http://x\nFeatures:\n  - f:\n    enable: maybe\n",
			line:    4,
			message: "invalid enable value",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("order.txt", []byte(tt.content))
			var ferr *FormatError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.line, ferr.Line)
			assert.Contains(t, ferr.Message, tt.message)
		})
	}
}

func TestParseDSL_CommentsAndBlankLinesIgnored(t *testing.T) {
	content := []byte(`// header
Host: http://x

// pages follow
Page Home

action:
  // pick the button
  type: Click

  target: Go
`)
	sc, err := Parse("comments.txt", content)
	require.NoError(t, err)
	require.Len(t, sc.Pages, 1)
	assert.Equal(t, scenario.ClickAction{Target: "Go"}, sc.Pages[0].Action)
}

func TestParseDSL_FieldsThenActionKeys(t *testing.T) {
	content := []byte(`Host: http://x
Page Login
action:
  fields:
    - User: ada
  type: Submit
`)
	sc, err := Parse("login.txt", content)
	require.NoError(t, err)
	assert.Equal(t, scenario.SubmitAction{Fields: []scenario.Field{{Name: "User", Value: "ada"}}}, sc.Pages[0].Action)
}

func TestParseDSL_DuplicateSubmitField(t *testing.T) {
	content := []byte(`Host: http://x
Page Login
action:
  type: Submit
  fields:
    - User: ada
    - User: bob
`)
	_, err := Parse("login.txt", content)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 7, ferr.Line)
	assert.Contains(t, ferr.Message, `duplicate submit field "User"`)
}

func TestParseDSL_ContextShadowsFeature(t *testing.T) {
	content := []byte(`Host: http://x
Features:
  - beta:
    name: other
`)
	_, err := Parse("features.txt", content)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Message, "shadows")
}

func TestParseDSL_PageKeywordNeedsSeparator(t *testing.T) {
	_, err := Parse("pages.txt", []byte("Host: http://x\nPages Home\n"))
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 2, ferr.Line)
}
