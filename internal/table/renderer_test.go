package table

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRendererBorder(t *testing.T) {
	r := NewRenderer(logrus.New())
	headers := []string{"Suite", "Cases"}
	rows := [][]string{{"group/TestPass", "2"}}

	hasBorderedRow := func(out string) bool {
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "│") {
				return true
			}
		}

		return false
	}

	bordered := r.RenderToString(headers, rows)
	assert.Contains(t, bordered, "group/TestPass")
	assert.True(t, hasBorderedRow(bordered))

	plain := r.RenderToString(headers, rows, WithBorder(false))
	assert.Contains(t, plain, "group/TestPass")
	assert.False(t, hasBorderedRow(plain))
}
