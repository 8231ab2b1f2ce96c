package notify_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restocksgo/restocks/pkg/logger"
	"github.com/restocksgo/restocks/pkg/notify"
)

func TestDiscordNotifier_SendSaleAlert(t *testing.T) {
	t.Parallel()

	alert := notify.SaleAlert{
		ListingID:   777,
		ProductName: "Dunk Low Panda",
		SKU:         "DD1391-100",
		Size:        "42.5",
		Payout:      211,
		ImageURL:    "https://cdn.restocks.net/products/DD1391-100/1.jpg",
	}

	t.Run("sends an embed with the sale fields", func(t *testing.T) {
		t.Parallel()

		bodyCh := make(chan []byte, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			buf, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			bodyCh <- buf
			w.WriteHeader(http.StatusNoContent)
		}))
		t.Cleanup(srv.Close)

		n := notify.NewDiscordNotifier(srv.URL)
		require.NoError(t, n.SendSaleAlert(t.Context(), alert))

		var payload struct {
			Embeds []struct {
				Title  string `json:"title"`
				Fields []struct {
					Name  string `json:"name"`
					Value string `json:"value"`
				} `json:"fields"`
				Thumbnail *struct {
					URL string `json:"url"`
				} `json:"thumbnail"`
			} `json:"embeds"`
		}
		require.NoError(t, json.Unmarshal(<-bodyCh, &payload))
		require.Len(t, payload.Embeds, 1)

		embed := payload.Embeds[0]
		assert.Equal(t, "Sold: Dunk Low Panda", embed.Title)
		require.NotNil(t, embed.Thumbnail)
		assert.Equal(t, alert.ImageURL, embed.Thumbnail.URL)

		values := map[string]string{}
		for _, f := range embed.Fields {
			values[f.Name] = f.Value
		}
		assert.Equal(t, "42.5", values["Size"])
		assert.Equal(t, "211", values["Payout"])
		assert.Equal(t, "777", values["Listing"])
		assert.Equal(t, "DD1391-100", values["SKU"])
	})

	t.Run("webhook rejection surfaces as error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "invalid webhook token", http.StatusUnauthorized)
		}))
		t.Cleanup(srv.Close)

		n := notify.NewDiscordNotifier(srv.URL)
		err := n.SendSaleAlert(t.Context(), alert)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("unreachable webhook surfaces as error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
		srv.Close()

		n := notify.NewDiscordNotifier(srv.URL)
		require.Error(t, n.SendSaleAlert(t.Context(), alert))
	})
}

func TestNoopNotifier_SendSaleAlert(t *testing.T) {
	t.Parallel()

	n := notify.NewNoopNotifier(logger.Discard())
	require.NoError(t, n.SendSaleAlert(t.Context(), notify.SaleAlert{ListingID: 1}))
}
