// Package remote exports metric points over the Prometheus remote
// write protocol.
//
// Writer buffers encoded series and transmits them when the export
// pipeline flushes, when the buffer reaches MaxSeriesPerRequest, or not
// at all for values the protocol cannot carry (string samples are
// skipped). Distribution points expand into the conventional _count,
// _sum, _mean, and cumulative le bucket series. Requests are throttled
// through a token bucket so a hot registry cannot flood the
// destination.
package remote
