package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newStores(t *testing.T) map[string]*Store {
	t.Helper()
	fb, err := NewFileBackend(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	clock := WithClock(fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	return map[string]*Store{
		"memory": NewStore(NewMemoryBackend(), clock),
		"file":   NewStore(fb, clock),
	}
}

func TestStore_ReadMissing(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Read(KeyPermanent)
			assert.True(t, errors.Is(err, ErrNotFound))

			def := s.ReadOrDefault(KeyPermanent)
			assert.Equal(t, DefaultAvatar, def.Values[KeyAvatar])
			assert.Equal(t, []string{}, def.List(KeyRestrictions))
			assert.NotNil(t, def.Lists[KeyConditions])

			p := s.Profile()
			assert.Equal(t, DefaultAvatar, p.Avatar)
			assert.Empty(t, p.Restrictions)
			assert.NotNil(t, p.Restrictions)
			assert.Equal(t, DefaultGoal, p.Goal)
			assert.Equal(t, DefaultMealsPerDay, p.MealsPerDay)
		})
	}
}

func TestStore_WriteMergesRoundTrip(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Write(KeyPermanent, New().Set(KeyName, "Ada").SetList(KeyRestrictions, []string{"vegan"}).Confirm("account", true))
			require.NoError(t, err)

			patch := New().Set(KeyZIP, "94107").SetList(KeyConditions, []string{"diabetes"}).Confirm("location", true)
			_, err = s.Write(KeyPermanent, patch)
			require.NoError(t, err)

			got, err := s.Read(KeyPermanent)
			require.NoError(t, err)

			for k, v := range patch.Values {
				assert.Equal(t, v, got.Values[k])
			}
			for k, v := range patch.Lists {
				assert.Equal(t, v, got.Lists[k])
			}
			for k, v := range patch.Confirmed {
				assert.Equal(t, v, got.Confirmed[k])
			}
			assert.Equal(t, "Ada", got.Values[KeyName], "unrelated keys survive")
			assert.Equal(t, []string{"vegan"}, got.Lists[KeyRestrictions])
			assert.True(t, got.Confirmed["account"])
			assert.Equal(t, SchemaVersion, got.Version)
		})
	}
}

func TestStore_WriteCanClearValues(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	_, err := s.Write(KeyPermanent, New().Set(KeyPhone, "+1 415 555 0100").SetList(KeyRestrictions, []string{"keto"}))
	require.NoError(t, err)
	_, err = s.Write(KeyPermanent, New().Set(KeyPhone, "").SetList(KeyRestrictions, nil))
	require.NoError(t, err)

	got, err := s.Read(KeyPermanent)
	require.NoError(t, err)
	assert.Equal(t, "", got.Values[KeyPhone])
	assert.Empty(t, got.Lists[KeyRestrictions])
}

func TestStore_SaveKeepsBothKeysInSync(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := s.InSync()
			require.NoError(t, err)
			assert.True(t, ok)

			first, err := s.Save(New().Set(KeyName, "Ada"))
			require.NoError(t, err)
			assert.NotEmpty(t, first.ID)

			second, err := s.Save(New().Set(KeyGoal, "lose"))
			require.NoError(t, err)
			assert.Equal(t, first.ID, second.ID, "id is stable once assigned")

			pending, err := s.Read(KeyPending)
			require.NoError(t, err)
			permanent, err := s.Read(KeyPermanent)
			require.NoError(t, err)
			assert.True(t, Equal(pending, permanent))
			assert.Equal(t, "Ada", permanent.Values[KeyName])
			assert.Equal(t, "lose", permanent.Values[KeyGoal])

			ok, err = s.InSync()
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestStore_InSyncDetectsDrift(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	_, err := s.Save(New().Set(KeyName, "Ada"))
	require.NoError(t, err)
	_, err = s.Write(KeyPending, New().Set(KeyName, "Grace"))
	require.NoError(t, err)

	ok, err := s.InSync()
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "Grace", s.Load().Values[KeyName], "newer key wins on load")

	_, err = s.Repair()
	require.NoError(t, err)
	ok, err = s.InSync()
	require.NoError(t, err)
	assert.True(t, ok)
}

// pendingFails rejects writes to the temporary key once armed.
type pendingFails struct {
	*MemoryBackend
	armed bool
}

func (b *pendingFails) Put(key string, data []byte) error {
	if b.armed && key == KeyPending {
		return errors.New("disk full")
	}
	return b.MemoryBackend.Put(key, data)
}

func TestStore_SavePartialFailureKeepsPermanentCurrent(t *testing.T) {
	b := &pendingFails{MemoryBackend: NewMemoryBackend()}
	s := NewStore(b, WithClock(fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))
	_, err := s.Save(New().Set(KeyName, "Ada"))
	require.NoError(t, err)

	b.armed = true
	_, err = s.Save(New().Set(KeyName, "Grace"))
	require.Error(t, err)

	permanent, err := s.Read(KeyPermanent)
	require.NoError(t, err)
	assert.Equal(t, "Grace", permanent.Values[KeyName], "permanent key is written first")
	assert.Equal(t, "Grace", s.Load().Values[KeyName])

	ok, err := s.InSync()
	require.NoError(t, err)
	assert.False(t, ok)

	b.armed = false
	_, err = s.Repair()
	require.NoError(t, err)
	ok, err = s.InSync()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_LoadFromEitherKey(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	_, err := s.Write(KeyPending, New().Set(KeyEmail, "ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", s.Profile().Email)

	ok, err := s.InSync()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_MalformedFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	fb, err := NewFileBackend(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyPermanent+".json"), []byte("{not json"), 0o644))

	s := NewStore(fb)
	_, err = s.Read(KeyPermanent)
	assert.ErrorIs(t, err, ErrMalformed)

	def := s.ReadOrDefault(KeyPermanent)
	assert.Equal(t, DefaultAvatar, def.Values[KeyAvatar])

	_, err = s.Write(KeyPermanent, New().Set(KeyName, "Ada"))
	require.NoError(t, err)
	got, err := s.Read(KeyPermanent)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Values[KeyName])
}

func TestStore_Observer(t *testing.T) {
	var keys []string
	s := NewStore(NewMemoryBackend(), WithObserver(func(key string, err error) {
		assert.NoError(t, err)
		keys = append(keys, key)
	}))
	_, err := s.Save(New().Set(KeyName, "Ada"))
	require.NoError(t, err)
	assert.Equal(t, []string{KeyPermanent, KeyPending}, keys)
}

func TestDecode_Legacy(t *testing.T) {
	legacy := []byte(`{
		"id": "u-1",
		"fullName": "Ada Lovelace",
		"zipCode": "94107",
		"age": 36,
		"dietaryRestrictions": ["vegan", "gluten-free"],
		"healthConditions": [],
		"newsletter": true
	}`)
	s, err := Decode(legacy)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, s.Version)
	assert.Equal(t, "u-1", s.ID)
	assert.Equal(t, "Ada Lovelace", s.Values[KeyName])
	assert.Equal(t, "94107", s.Values[KeyZIP])
	assert.Equal(t, "36", s.Values[KeyAge])
	assert.Equal(t, "true", s.Values["newsletter"])
	assert.Equal(t, []string{"vegan", "gluten-free"}, s.Lists[KeyRestrictions])
	assert.Equal(t, []string{}, s.Lists[KeyConditions])

	p := NewProfile(s)
	assert.Equal(t, 36, p.Age)
	assert.Equal(t, DefaultAvatar, p.Avatar)
}

func TestDecode_V1ConfirmedFlags(t *testing.T) {
	s, err := Decode([]byte(`{"version":1,"values":{"account.name":"Ada","account.confirmed":"true","body.confirmed":"false"}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"account": true, "body": false}, s.Confirmed)
	assert.Equal(t, map[string]string{"account.name": "Ada"}, s.Values)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`[1,2]`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte(`{"version":99}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNewProfile(t *testing.T) {
	s := New().
		Set(KeyName, " Ada ").
		Set(KeyHeight, "170").
		Set(KeyWeight, "65").
		Set(KeyAge, "abc").
		Set(KeyCookTime, "30").
		Confirm("account", true).
		Confirm("location", true)
	p := NewProfile(s)

	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, 0, p.Age, "unparseable numbers fall back")
	assert.Equal(t, 30, p.MaxCookMinutes)
	assert.InDelta(t, 22.49, p.BMI(), 0.01)
	assert.True(t, p.Onboarded("account", "location"))
	assert.False(t, p.Onboarded("account", "body"))
	assert.Equal(t, "Ada", p.DisplayName())

	assert.Equal(t, "grace", Profile{Email: "grace@example.com"}.DisplayName())
	assert.Equal(t, "there", Profile{}.DisplayName())
	assert.Zero(t, Profile{}.BMI())
}

func TestBackend_InvalidKeys(t *testing.T) {
	fb, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	for _, b := range []Backend{NewMemoryBackend(), fb} {
		assert.Error(t, b.Put("", nil))
		assert.Error(t, b.Put("../escape", nil))
		assert.Error(t, b.Put(".tmp-x", nil))
	}
}

func TestFileBackend_KeysSkipsTempFiles(t *testing.T) {
	dir := t.TempDir()
	fb, err := NewFileBackend(dir)
	require.NoError(t, err)
	require.NoError(t, fb.Put(KeyPending, []byte(`{}`)))
	require.NoError(t, fb.Put(KeyPermanent, []byte(`{}`)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-123.json"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	keys, err := fb.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{KeyPermanent, KeyPending}, keys)
}
