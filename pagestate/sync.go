package pagestate

import "net/url"

// Navigator writes query parameters to the address bar (or whatever plays its
// role: a router, a test recorder, a CLI printing the canonical query).
type Navigator interface {
	Push(values url.Values)
	Replace(values url.Values)
}

// SyncURL mirrors every change of store into nav through codec, honoring the
// navigation type of the change. The returned function stops the sync.
func SyncURL(store *Store, codec Codec, nav Navigator) func() {
	return store.Subscribe(func(change Change) {
		values := codec.Encode(change.Current)
		if change.Navigation == Replace {
			nav.Replace(values)
			return
		}
		nav.Push(values)
	})
}
