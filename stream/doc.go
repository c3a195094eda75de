// Package stream provides ready-made sources and combinators for the
// strand.Stream interface.
//
// Of, Empty, Never and Fail cover the fixed cases. FromChannel bridges
// a Go channel into the poll world with a pump goroutine, so ordinary
// producer code can feed a context. Ticker and Cron deliver wall-clock
// fire times, the latter on a cron schedule. Map and Filter wrap an
// existing stream without buffering; Throttle paces one against a
// token-bucket rate limiter.
//
// Sources returned by this package are for a single consumer: one
// context polls them, and FromChannel, Ticker and Cron accept sends and
// timer fires from any goroutine.
package stream
