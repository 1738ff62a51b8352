package sentiment

import (
	"testing"

	"crypto-sentiment-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(nil, nil)

	testCases := []struct {
		comment string
		want    Label
	}{
		{comment: "BUY BUY BUY!!!", want: Buy},
		{comment: "time to go long on eth", want: Buy},
		{comment: "I'd sell before the dump", want: Sell},
		{comment: "Bearish divergence, short it", want: Sell},
		{comment: "great video, thanks", want: Other},
		{comment: "buy or sell? no idea", want: Other},
		{comment: "buyer beware", want: Other}, // whole words only
		{comment: "", want: Other},
	}

	for _, tc := range testCases {
		t.Run(tc.comment, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.comment))
		})
	}
}

func TestClassify_CustomKeywords(t *testing.T) {
	c := NewClassifier([]string{" Ape "}, []string{"rug"})

	assert.Equal(t, Buy, c.Classify("ape in"))
	assert.Equal(t, Sell, c.Classify("this is a rug"))
	assert.Equal(t, Other, c.Classify("buy"))
}

func TestCount(t *testing.T) {
	c := NewClassifier(nil, nil)

	counts := c.Count([]string{
		"buy the dip",
		"moon soon",
		"sell everything",
		"nice chart",
		"buy and sell",
	})

	assert.Equal(t, Counts{Buy: 2, Sell: 1, Other: 2, Total: 5}, counts)
	assert.Equal(t, Counts{}, c.Count(nil))
}

func TestSummarize(t *testing.T) {
	c := NewClassifier(nil, nil)

	bullish := c.Summarize("v1", []models.TradeView{{Comment: "buy"}, {Comment: "pump it"}, {Comment: "dump"}})
	assert.Equal(t, Buy, bullish.Dominant)
	assert.Equal(t, "v1", bullish.VideoID)
	assert.Equal(t, 3, bullish.Counts.Total)

	even := c.Summarize("", []models.TradeView{{Comment: "buy"}, {Comment: "sell"}})
	assert.Equal(t, Other, even.Dominant)

	bearish := c.Summarize("", []models.TradeView{{Comment: "crash incoming"}})
	assert.Equal(t, Sell, bearish.Dominant)
}
