package dialog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/wildcards/internal/dialog"
)

func TestDialog_ConfirmAndCancel(t *testing.T) {
	for _, answer := range []bool{true, false} {
		d := dialog.New()
		var calls []bool
		d.Show("Continuer ?", func(ok bool) { calls = append(calls, ok) })

		msg, pending := d.Pending()
		assert.True(t, pending)
		assert.Equal(t, "Continuer ?", msg)

		assert.True(t, d.Resolve(answer))
		assert.Equal(t, []bool{answer}, calls)

		assert.False(t, d.Resolve(answer), "a question is answered once")
		assert.Len(t, calls, 1)

		_, pending = d.Pending()
		assert.False(t, pending)
	}
}

func TestDialog_LastWriterWins(t *testing.T) {
	d := dialog.New()
	firstCalled := false
	var second []bool

	d.Show("first", func(bool) { firstCalled = true })
	d.Show("second", func(ok bool) { second = append(second, ok) })

	msg, _ := d.Pending()
	assert.Equal(t, "second", msg)

	d.Resolve(true)
	assert.False(t, firstCalled, "replaced callback is dropped")
	assert.Equal(t, []bool{true}, second)
}

func TestDialog_DismissIsCancel(t *testing.T) {
	d := dialog.New()
	got := true
	d.Show("x", func(ok bool) { got = ok })

	assert.True(t, d.Dismiss())
	assert.False(t, got)
	assert.False(t, d.Dismiss())
}

func TestDialog_CallbackMayShowAgain(t *testing.T) {
	d := dialog.New()
	d.Show("first", func(bool) {
		d.Show("follow-up", func(bool) {})
	})

	d.Resolve(true)

	msg, pending := d.Pending()
	assert.True(t, pending)
	assert.Equal(t, "follow-up", msg)
}
