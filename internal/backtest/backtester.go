// Package backtest replays a strategy bar by bar over a historical OHLCV
// series and reports the trades and statistics it would have produced.
package backtest

import (
	"context"

	"github.com/hmasato/trader/internal/core"
	"github.com/hmasato/trader/internal/strategy"
)

// Backtester runs walk-forward strategy backtests.
type Backtester struct{}

// New creates a new Backtester.
func New() *Backtester {
	return &Backtester{}
}

// Run replays the strategy over the series, one bar at a time, feeding it
// only the history known up to each bar. Parameters are validated once up
// front; bars with insufficient history simply produce holds.
func (b *Backtester) Run(ctx context.Context, strat strategy.Strategy, overrides strategy.Params, symbol string, series core.Series) (*Result, error) {
	if series.Len() == 0 {
		return nil, core.ErrNoData
	}

	params, err := strat.ParamSchema().Merge(overrides)
	if err != nil {
		return nil, err
	}

	var events []SignalEvent

	for i := range series.Bars {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		window := core.Series{
			Bars:      series.Bars[:i+1],
			HasVolume: series.HasVolume,
		}

		result, err := strat.Compute(window, params)
		if err != nil {
			return nil, err
		}
		if result.Signal == core.SignalHold {
			continue
		}

		events = append(events, SignalEvent{
			Time:   series.Bars[i].Time,
			Price:  series.Bars[i].Close,
			Result: result,
		})
	}

	trades := eventsToTrades(events, series)

	return &Result{
		StrategyID: strat.ID(),
		Symbol:     symbol,
		StartDate:  series.Bars[0].Time,
		EndDate:    series.Bars[series.Len()-1].Time,
		Signals:    events,
		Trades:     trades,
		Stats:      CalculateStats(trades),
	}, nil
}

// eventsToTrades pairs buy and sell events into long trades. A buy while
// flat opens a position; the next sell closes it. A position still open at
// the end of the series is marked to the final close.
func eventsToTrades(events []SignalEvent, series core.Series) []Trade {
	var trades []Trade
	var open *Trade

	for _, ev := range events {
		switch ev.Result.Signal {
		case core.SignalBuy:
			if open == nil {
				open = &Trade{Entry: ev, EntryPrice: ev.Price}
			}
		case core.SignalSell:
			if open != nil {
				evCopy := ev
				open.Exit = &evCopy
				open.ExitPrice = ev.Price
				open.Return = (open.ExitPrice - open.EntryPrice) / open.EntryPrice
				trades = append(trades, *open)
				open = nil
			}
		}
	}

	if open != nil {
		open.ExitPrice = series.Bars[series.Len()-1].Close
		open.Return = (open.ExitPrice - open.EntryPrice) / open.EntryPrice
		trades = append(trades, *open)
	}

	return trades
}
