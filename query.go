package cbadv

import (
	"net/url"
	"strconv"
	"time"
)

// queryArgs builds the optional query string of a request. Every add method
// skips unset values (nil pointers, empty strings, empty slices) so the
// encoded query carries only the parameters the caller actually supplied.
type queryArgs struct {
	values url.Values
}

func newQueryArgs() *queryArgs {
	return &queryArgs{values: url.Values{}}
}

func (q *queryArgs) addString(key, value string) *queryArgs {
	if value != "" {
		q.values.Set(key, value)
	}
	return q
}

func (q *queryArgs) addInt32(key string, value *int32) *queryArgs {
	if value != nil {
		q.values.Set(key, strconv.FormatInt(int64(*value), 10))
	}
	return q
}

func (q *queryArgs) addInt64(key string, value *int64) *queryArgs {
	if value != nil {
		q.values.Set(key, strconv.FormatInt(*value, 10))
	}
	return q
}

// addTime encodes a timestamp as RFC 3339 in UTC with second precision.
func (q *queryArgs) addTime(key string, value *time.Time) *queryArgs {
	if value != nil {
		q.values.Set(key, value.UTC().Truncate(time.Second).Format(time.RFC3339))
	}
	return q
}

// addUnix encodes a timestamp as UNIX seconds, the convention of the candle
// endpoint.
func (q *queryArgs) addUnix(key string, value time.Time) *queryArgs {
	q.values.Set(key, strconv.FormatInt(value.Unix(), 10))
	return q
}

// addList adds one key=value pair per element, the repeated-parameter form
// the API expects for multi-valued filters.
func (q *queryArgs) addList(key string, values []string) *queryArgs {
	for _, value := range values {
		q.values.Add(key, value)
	}
	return q
}

// appendTo attaches the encoded query to requestURL. URLs without parameters
// come back unchanged.
func (q *queryArgs) appendTo(requestURL string) string {
	if len(q.values) == 0 {
		return requestURL
	}
	return requestURL + "?" + q.values.Encode()
}
