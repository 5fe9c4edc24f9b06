package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeEntryService() *Service {
	svc := NewService(KindUp)
	_ = svc.AddEntry(ServiceEntry{BaseURL: "http://a"})
	_ = svc.AddEntry(ServiceEntry{BaseURL: "http://b"})
	_ = svc.AddEntry(ServiceEntry{BaseURL: "http://c"})

	return svc
}

func TestSelectorLastSucceededFirstAdvancesOnlyOnFailure(t *testing.T) {
	sel := NewSelector(threeEntryService(), LastSucceededFirst, FilterAny)

	first, err := sel.NextEntry()
	require.NoError(t, err)
	assert.Equal(t, "http://a", first.BaseURL)

	again, err := sel.NextEntry()
	require.NoError(t, err)
	assert.Equal(t, first, again, "no failure reported yet, selector must not move on")

	sel.RegisterFailure(first)

	next, err := sel.NextEntry()
	require.NoError(t, err)
	assert.Equal(t, "http://b", next.BaseURL)
}

func TestSelectorRoundRobinAdvancesEveryCall(t *testing.T) {
	sel := NewSelector(threeEntryService(), RoundRobin, FilterAny)

	var seen []string
	for i := 0; i < 4; i++ {
		e, err := sel.NextEntry()
		require.NoError(t, err)
		seen = append(seen, e.BaseURL)
	}

	assert.Equal(t, []string{"http://a", "http://b", "http://c", "http://a"}, seen)
}

func TestSelectorLeastFailuresFirstBubblesWorseEntryBack(t *testing.T) {
	sel := NewSelector(threeEntryService(), LeastFailuresFirst, FilterAny)

	a, _ := sel.NextEntry()
	assert.Equal(t, "http://a", a.BaseURL)

	sel.RegisterFailure(a)
	sel.RegisterFailure(a)

	b, _ := sel.NextEntry()
	assert.Equal(t, "http://b", b.BaseURL, "a has 2 failures now, should be bubbled past b and c")

	sel.RegisterFailure(b)

	head, _ := sel.NextEntry()
	assert.Equal(t, "http://c", head.BaseURL, "c has 0 failures, now the least-failing entry")
}

func TestSelectorFilterExcludesScheme(t *testing.T) {
	svc := NewService(KindUp)
	_ = svc.AddEntry(ServiceEntry{BaseURL: "http://a"})
	_ = svc.AddEntry(ServiceEntry{BaseURL: "https://b"})

	sel := NewSelector(svc, LastSucceededFirst, FilterNoHTTP)
	require.Equal(t, 1, sel.Len())

	e, err := sel.NextEntry()
	require.NoError(t, err)
	assert.Equal(t, "https://b", e.BaseURL)
}

func TestSelectorSingleEntryNeverReorders(t *testing.T) {
	svc := NewService(KindUp)
	_ = svc.AddEntry(ServiceEntry{BaseURL: "http://only"})

	sel := NewSelector(svc, LeastFailuresFirst, FilterAny)
	e, _ := sel.NextEntry()
	sel.RegisterFailure(e)

	again, err := sel.NextEntry()
	require.NoError(t, err)
	assert.Equal(t, e, again)
}
