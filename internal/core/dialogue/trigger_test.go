package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTrigger(t *testing.T) {
	tests := []struct {
		input string
		want  Trigger
	}{
		{"/start", TriggerStart},
		{"/add", TriggerAdd},
		{"/done", TriggerDone},
		{"/status", TriggerStatus},
		{"/cancel", TriggerCancel},
		{"/ADD", TriggerAdd},
		{"/add@recipe_bot", TriggerAdd},
		{"/done now", TriggerDone},
		{"/", TriggerUnknownCommand},
		{"/help", TriggerUnknownCommand},
		{"Dairy", TriggerText},
		{" /add", TriggerText},
		{"", TriggerText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTrigger(tt.input))
		})
	}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t,
		"Current Ingredients:\nMilk\nEgg\n\n"+
			"Send /add to add more ingredients.\n"+
			"Send /done to find your recipes.\n"+
			"Send /cancel to stop talking to me.\n",
		statusText([]string{"Milk", "Egg"}))
}
