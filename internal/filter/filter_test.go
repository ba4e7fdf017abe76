package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moonrockz/moonspec/internal/model"
)

func pickle(name string, tags ...string) model.Pickle {
	return model.Pickle{ID: name, Name: name, Tags: tags}
}

func TestFilterAppliesTagExpression(t *testing.T) {
	f, err := New("@smoke", nil)
	require.NoError(t, err)

	pickles := []model.Pickle{
		pickle("a", "@smoke"),
		pickle("b", "@slow"),
		pickle("c", "@smoke", "@slow"),
	}

	got := f.Apply(pickles)

	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Name)
	require.Equal(t, "c", got[1].Name)
}

func TestFilterAppliesScenarioNames(t *testing.T) {
	f, err := New("", []string{"Addition"})
	require.NoError(t, err)

	pickles := []model.Pickle{pickle("Addition"), pickle("Subtraction")}

	got := f.Apply(pickles)

	require.Len(t, got, 1)
	require.Equal(t, "Addition", got[0].Name)
}

func TestFilterPreservesOrder(t *testing.T) {
	f, err := New("", nil)
	require.NoError(t, err)

	pickles := []model.Pickle{pickle("z"), pickle("a"), pickle("m")}

	got := f.Apply(pickles)

	require.Equal(t, []string{"z", "a", "m"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestFilterInvalidExpression(t *testing.T) {
	_, err := New("@a and", nil)
	require.Error(t, err)
}
