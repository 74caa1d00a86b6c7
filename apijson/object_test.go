package apijson_test

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/straddle-go/apijson"
)

type testStatus string

const (
	testStatusActive   testStatus = "active"
	testStatusInactive testStatus = "inactive"
)

func (s testStatus) IsKnown() bool {
	switch s {
	case testStatusActive, testStatusInactive:
		return true
	}
	return false
}

type testDetail struct{ apijson.Object }

func (r testDetail) Reason() (string, error) { return apijson.GetNotNull[string](r.Raw(), "reason") }

func (r *testDetail) SetReason(v string) { _ = r.Writable().Set("reason", v) }

func (r testDetail) Validate() error {
	return r.Check(
		apijson.Required[string]("reason"),
		apijson.Optional[apijson.Enum[testStatus]]("status"),
	)
}

type testRecord struct{ apijson.Object }

func (r testRecord) ID() (string, error) { return apijson.GetNotNull[string](r.Raw(), "id") }

func (r testRecord) Status() (apijson.Enum[testStatus], error) {
	return apijson.GetNotNull[apijson.Enum[testStatus]](r.Raw(), "status")
}

func (r testRecord) Detail() (testDetail, error) {
	return apijson.GetNullable[testDetail](r.Raw(), "detail")
}

func (r testRecord) Note() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "note")
}

func (r testRecord) Validate() error {
	return r.Check(
		apijson.Required[string]("id"),
		apijson.Required[apijson.Enum[testStatus]]("status"),
		apijson.Optional[testDetail]("detail"),
		apijson.OptionalEach[testDetail]("history"),
		apijson.Optional[time.Time]("created_at"),
		apijson.Optional[map[string]*string]("metadata"),
	)
}

func decodeRecord(t *testing.T, in string) testRecord {
	t.Helper()
	var r testRecord
	require.NoError(t, json.Unmarshal([]byte(in), &r))
	return r
}

func TestGetters_ConversionRules(t *testing.T) {
	r := decodeRecord(t, `{
		"id": "rec_1",
		"status": "active",
		"detail": {"reason": "ok"},
		"note": null,
		"count": 3,
		"ratio": 0.5,
		"flag": true,
		"created_at": "2024-05-01T10:20:30+02:00",
		"payment_date": "2019-12-27",
		"metadata": {"a": "1", "b": null},
		"tags": ["x", "y"]
	}`)

	id, err := r.ID()
	require.NoError(t, err)
	assert.Equal(t, "rec_1", id)

	count, err := apijson.GetNotNull[int64](r.Raw(), "count")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	ratio, err := apijson.GetNotNull[float64](r.Raw(), "ratio")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ratio, 0)

	flag, err := apijson.GetNotNull[bool](r.Raw(), "flag")
	require.NoError(t, err)
	assert.True(t, flag)

	created, err := apijson.GetNotNull[time.Time](r.Raw(), "created_at")
	require.NoError(t, err)
	assert.True(t, created.Equal(time.Date(2024, 5, 1, 8, 20, 30, 0, time.UTC)))

	date, err := apijson.GetNotNull[apijson.Date](r.Raw(), "payment_date")
	require.NoError(t, err)
	assert.Equal(t, apijson.NewDate(2019, time.December, 27), date)

	md, err := apijson.GetNotNull[map[string]*string](r.Raw(), "metadata")
	require.NoError(t, err)
	require.Contains(t, md, "b")
	assert.Nil(t, md["b"])
	assert.Equal(t, "1", *md["a"])

	tags, err := apijson.GetNotNull[[]string](r.Raw(), "tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tags)

	detail, err := r.Detail()
	require.NoError(t, err)
	reason, err := detail.Reason()
	require.NoError(t, err)
	assert.Equal(t, "ok", reason)
}

func TestGetNotNull_MissingAndNull(t *testing.T) {
	r := decodeRecord(t, `{"id": null}`)

	_, err := r.ID()
	iss, ok := apijson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, apijson.CodeRequired, iss[0].Code)
	assert.Equal(t, "/id", iss[0].Path)

	_, err = r.Status()
	iss, ok = apijson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "/status", iss[0].Path)
}

func TestGetNotNull_TypeMismatch(t *testing.T) {
	r := decodeRecord(t, `{"id": 42, "detail": [1]}`)

	_, err := r.ID()
	iss, ok := apijson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, apijson.CodeInvalidType, iss[0].Code)
	assert.Equal(t, "/id", iss[0].Path)
	assert.NotNil(t, iss[0].Cause)

	_, err = r.Detail()
	iss, ok = apijson.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, apijson.CodeInvalidType, iss[0].Code)
	assert.Equal(t, "/detail", iss[0].Path)
}

func TestGetNullable_And_GetField(t *testing.T) {
	absent := decodeRecord(t, `{}`)
	null := decodeRecord(t, `{"note": null}`)
	set := decodeRecord(t, `{"note": "hi"}`)

	v, err := apijson.GetNullable[string](absent.Raw(), "note")
	require.NoError(t, err)
	assert.Empty(t, v)
	v, err = apijson.GetNullable[string](null.Raw(), "note")
	require.NoError(t, err)
	assert.Empty(t, v)

	f, err := absent.Note()
	require.NoError(t, err)
	assert.True(t, f.IsAbsent())

	f, err = null.Note()
	require.NoError(t, err)
	assert.True(t, f.IsNull())
	assert.False(t, f.IsAbsent())

	f, err = set.Note()
	require.NoError(t, err)
	got, ok := f.Get()
	assert.True(t, ok)
	assert.Equal(t, "hi", got)
	assert.True(t, f.IsPresent())
}

func TestValidate_CollectsNestedIssues(t *testing.T) {
	r := decodeRecord(t, `{
		"status": "brand_new",
		"detail": {"status": "gone"},
		"history": [{"reason": "a"}, {"reason": null}],
		"created_at": "yesterday"
	}`)

	err := r.Validate()
	iss, ok := apijson.AsIssues(err)
	require.True(t, ok)

	got := map[string]string{}
	for _, it := range iss {
		got[it.Path] = it.Code
	}
	assert.Equal(t, map[string]string{
		"/id":               apijson.CodeRequired,
		"/status":           apijson.CodeInvalidEnum,
		"/detail/reason":    apijson.CodeRequired,
		"/detail/status":    apijson.CodeInvalidEnum,
		"/history/1/reason": apijson.CodeRequired,
		"/created_at":       apijson.CodeInvalidType,
	}, got)
	assert.Contains(t, err.Error(), "required at /id")
}

func TestValidate_Passes(t *testing.T) {
	r := decodeRecord(t, `{"id":"rec","status":"inactive","detail":null,"extra_field":{"x":1}}`)
	assert.NoError(t, r.Validate())
}

func TestValidate_UnknownEnumDoesNotBreakReads(t *testing.T) {
	r := decodeRecord(t, `{"id":"rec","status":"suspended"}`)

	st, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, "suspended", st.Raw())
	assert.False(t, st.IsKnown())
	assert.Error(t, r.Validate())
}

func TestModel_RoundTrip(t *testing.T) {
	in := `{"id":"rec","status":"future_value","unknown":{"nested":[1,null,"x"]},"note":null,"detail":{"reason":"r","extra":true}}`
	r := decodeRecord(t, in)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	again := decodeRecord(t, string(out))
	assert.True(t, r.Equal(again.Object))
	assert.True(t, apijson.Equal(r, again))

	out2, err := json.Marshal(again)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(out2))
}

func TestModel_BuildWithSetters(t *testing.T) {
	var d testDetail
	d.SetReason("manual")

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"reason":"manual"}`, string(out))

	var empty testDetail
	out, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestClone_IsIndependent(t *testing.T) {
	var d testDetail
	d.SetReason("first")

	cp := apijson.Clone(d)
	cp.SetReason("second")

	assert.False(t, d.Raw().Equal(cp.Raw()))
	r, err := d.Reason()
	require.NoError(t, err)
	assert.Equal(t, "first", r)
}

func TestFromRawUnchecked(t *testing.T) {
	s := apijson.NewStore()
	require.NoError(t, s.Set("id", 99))

	r := apijson.FromRawUnchecked[testRecord](s)
	assert.Same(t, s, r.Raw())

	_, err := r.ID()
	assert.True(t, apijson.IsInvalidData(err))
}

func TestDecodeModel_StrictDuplicates(t *testing.T) {
	_, err := apijson.DecodeModel[testRecord]([]byte(`{"id":"a","id":"b"}`), apijson.ParseOptions{OnDuplicateKey: apijson.Error})
	assert.True(t, apijson.IsInvalidData(err))

	r, err := apijson.DecodeModel[testRecord]([]byte(`{"id":"a","id":"b"}`), apijson.ParseOptions{})
	require.NoError(t, err)
	id, err := r.ID()
	require.NoError(t, err)
	assert.Equal(t, "b", id)
}

func TestObject_Path(t *testing.T) {
	r := decodeRecord(t, `{"id":"rec","detail":{"reason":"ok","new_field":{"score":7}}}`)
	assert.Equal(t, int64(7), r.Path("detail.new_field.score").Int())
	assert.False(t, r.Path("detail.missing").Exists())
}
