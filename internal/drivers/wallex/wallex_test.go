package wallex

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/navid-fn/radar/internal/scraper"
	"github.com/shopspring/decimal"
)

const marketsBody = `{
  "success": true,
  "message": "The operation was successful",
  "result": {
    "symbols": {
      "USDTTMN": {
        "symbol": "USDTTMN", "baseAsset": "USDT", "quoteAsset": "TMN",
        "stats": {"bidPrice": "49990", "askPrice": "50010", "24h_volume": "120000.5", "24h_quoteVolume": "6000000000", "lastPrice": "50000"}
      },
      "BTCUSDT": {
        "symbol": "BTCUSDT", "baseAsset": "BTC", "quoteAsset": "USDT",
        "stats": {"bidPrice": 1.99, "askPrice": 2.01, "24h_volume": "1000", "24h_quoteVolume": 2000, "lastPrice": 2}
      },
      "BTCTMN": {
        "symbol": "BTCTMN", "baseAsset": "BTC", "quoteAsset": "TMN",
        "stats": {"bidPrice": "-", "askPrice": "", "24h_volume": null, "24h_quoteVolume": "60000000", "lastPrice": "90000"}
      },
      "NEWTMN": {
        "symbol": "NEWTMN", "baseAsset": "NEW", "quoteAsset": "TMN",
        "stats": null
      }
    }
  }
}`

const currenciesBody = `{
  "success": true,
  "message": "The operation was successful",
  "result": [
    {"key": "BTC", "price": 100123.45, "volume_24h": "35000000000", "market_cap": 1990000000000, "percent_change_24h": -1.25},
    {"key": "usdt", "price": "1.0001", "volume_24h": "-", "market_cap": null, "percent_change_24h": "0.01"},
    {"key": "", "price": 1},
    {"key": "BTC", "price": 1}
  ]
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL:           server.URL,
		RequestsPerSecond: 1000,
		MaxRetries:        2,
		RetryDelay:        time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchPairs(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != marketsPath {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(marketsBody))
	})

	pairs, err := client.FetchPairs(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(pairs) != 4 {
		t.Fatalf("Expected 4 pairs, got %d", len(pairs))
	}

	usdt := pairs["USDTTMN"]
	if usdt == nil || !usdt.LastPrice.Valid || !usdt.LastPrice.Decimal.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("Expected USDTTMN last price 50000, got %+v", usdt)
	}

	btc := pairs["BTCUSDT"]
	if btc == nil || !btc.QuoteVolume24h.Decimal.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected numeric quote volume 2000, got %+v", btc)
	}

	tmn := pairs["BTCTMN"]
	if tmn == nil {
		t.Fatal("Expected BTCTMN quote")
	}
	if tmn.BidPrice.Valid || tmn.AskPrice.Valid || tmn.Volume24h.Valid {
		t.Errorf("Expected placeholder, empty and null stats to be unavailable, got %+v", tmn)
	}
	if !tmn.LastPrice.Valid {
		t.Error("Expected BTCTMN last price to be available")
	}

	if q, ok := pairs["NEWTMN"]; !ok || q != nil {
		t.Errorf("Expected NEWTMN listed without stats, got %v (present=%v)", q, ok)
	}
}

func TestFetchPairsFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		}},
		{"unsuccessful", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": false, "message": "blocked", "result": {}}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, tt.handler)
			pairs, err := client.FetchPairs(context.Background())
			if err == nil {
				t.Error("Expected an error")
			}
			if len(pairs) != 0 {
				t.Errorf("Expected no pairs, got %d", len(pairs))
			}
		})
	}
}

func TestFetchGlobalStats(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != currenciesStatsPath {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(currenciesBody))
	})

	stats, err := client.FetchGlobalStats(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("Expected 2 assets, got %d", len(stats))
	}

	btc := stats["BTC"]
	if !btc.Price.Valid || !btc.Price.Decimal.Equal(decimal.RequireFromString("100123.45")) {
		t.Errorf("Expected first BTC entry to win, got %v", btc.Price)
	}
	if !btc.PercentChange24h.Decimal.Equal(decimal.RequireFromString("-1.25")) {
		t.Errorf("Expected change -1.25, got %v", btc.PercentChange24h)
	}

	usdt, ok := stats["USDT"]
	if !ok {
		t.Fatal("Expected lower-case key to be normalized")
	}
	if usdt.Volume24h.Valid || usdt.MarketCap.Valid {
		t.Error("Expected placeholder and null stats to be unavailable")
	}
}

func TestMarketsBreakerIgnoresStatsSuccess(t *testing.T) {
	var marketCalls atomic.Int32
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == marketsPath {
			marketCalls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(currenciesBody))
	})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := client.FetchPairs(ctx); err == nil {
			t.Fatalf("Cycle %d: expected markets to fail", i)
		}
		if _, err := client.FetchGlobalStats(ctx); err != nil {
			t.Fatalf("Cycle %d: unexpected stats error: %v", i, err)
		}
	}

	before := marketCalls.Load()
	if _, err := client.FetchPairs(ctx); !errors.Is(err, scraper.ErrCircuitOpen) {
		t.Errorf("Expected the markets breaker to be open, got %v", err)
	}
	if marketCalls.Load() != before {
		t.Error("Expected no request while the markets breaker is open")
	}

	if _, err := client.FetchGlobalStats(ctx); err != nil {
		t.Errorf("Expected stats to keep working, got %v", err)
	}
}
