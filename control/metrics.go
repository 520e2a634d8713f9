// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus counters for channel activity. A nil *ChanMetrics is valid and
// records nothing, so channels without metrics pay a nil check only.

package control

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "csp"

// ChanMetrics groups the counters channels report into.
type ChanMetrics struct {
	sends   *prometheus.CounterVec
	recvs   *prometheus.CounterVec
	closes  *prometheus.CounterVec
	selects *prometheus.CounterVec
}

// NewChanMetrics creates the counters and registers them with reg. A nil
// reg uses prometheus.DefaultRegisterer. Counters already registered under
// the same names are reused.
func NewChanMetrics(reg prometheus.Registerer) (*ChanMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &ChanMetrics{
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sends_total",
			Help:      "Completed sends by channel and whether the sender blocked.",
		}, []string{"chan", "blocked"}),
		recvs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "receives_total",
			Help:      "Receives that delivered a value, by channel and whether the receiver blocked.",
		}, []string{"chan", "blocked"}),
		closes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "closes_total",
			Help:      "Channel closes.",
		}, []string{"chan"}),
		selects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "select_wins_total",
			Help:      "Select operands chosen, by channel and whether the select blocked.",
		}, []string{"chan", "blocked"}),
	}
	var err error
	m.sends, err = register(reg, m.sends)
	if err != nil {
		return nil, err
	}
	m.recvs, err = register(reg, m.recvs)
	if err != nil {
		return nil, err
	}
	m.closes, err = register(reg, m.closes)
	if err != nil {
		return nil, err
	}
	m.selects, err = register(reg, m.selects)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// ObserveSend counts one completed send.
func (m *ChanMetrics) ObserveSend(ch string, blocked bool) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(ch, strconv.FormatBool(blocked)).Inc()
}

// ObserveRecv counts one receive that delivered a value.
func (m *ChanMetrics) ObserveRecv(ch string, blocked bool) {
	if m == nil {
		return
	}
	m.recvs.WithLabelValues(ch, strconv.FormatBool(blocked)).Inc()
}

// ObserveClose counts one close.
func (m *ChanMetrics) ObserveClose(ch string) {
	if m == nil {
		return
	}
	m.closes.WithLabelValues(ch).Inc()
}

// ObserveSelect counts one select decided by an operand on ch.
func (m *ChanMetrics) ObserveSelect(ch string, blocked bool) {
	if m == nil {
		return
	}
	m.selects.WithLabelValues(ch, strconv.FormatBool(blocked)).Inc()
}
