package restclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/listview-go"
	"github.com/nrfta/listview-go/restclient"
	"github.com/nrfta/listview-go/source"
)

type appointment struct {
	ID    string `json:"id"`
	Plate string `json:"plate"`
}

var _ = Describe("NewFetchFunc", func() {
	var (
		ctx     context.Context
		server  *httptest.Server
		mu      sync.Mutex
		queries []url.Values
		headers []http.Header
		handler http.HandlerFunc
		client  *restclient.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		queries = nil
		headers = nil
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			queries = append(queries, r.URL.Query())
			headers = append(headers, r.Header.Clone())
			mu.Unlock()
			handler(w, r)
		}))
		DeferCleanup(server.Close)

		var err error
		client, err = restclient.New(server.URL+"/api", restclient.WithToken("secret"))
		Expect(err).ToNot(HaveOccurred())
	})

	It("sends limit, offset and active filters as query parameters", func() {
		fetch := restclient.NewFetchFunc[appointment](client, restclient.Endpoint{Path: "/appointments"})

		_, err := fetch(ctx, listview.NewListRequest(10, 20, listview.Filters{"plate": "ABC", "status": " "}))
		Expect(err).ToNot(HaveOccurred())

		Expect(queries).To(HaveLen(1))
		Expect(queries[0]).To(Equal(url.Values{
			"limit":  {"10"},
			"offset": {"20"},
			"plate":  {"ABC"},
		}))
		Expect(headers[0].Get("Authorization")).To(Equal("Bearer secret"))
	})

	It("decodes a bare response", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":"a-1","plate":"ABC"},{"id":"a-2","plate":"XYZ"}]`))
		}
		fetch := restclient.NewFetchFunc[appointment](client, restclient.Endpoint{Path: "appointments"})

		raw, err := fetch(ctx, listview.ListRequest{})
		Expect(err).ToNot(HaveOccurred())

		Expect(raw.IsBare()).To(BeTrue())
		Expect(raw.Items()).To(Equal([]appointment{{ID: "a-1", Plate: "ABC"}, {ID: "a-2", Plate: "XYZ"}}))
	})

	It("decodes an enveloped response with a custom items key", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":[{"id":"a-1"}],"count":31,"limit":1,"offset":0}`))
		}
		fetch := restclient.NewFetchFunc[appointment](client, restclient.Endpoint{
			Path:     "/appointments",
			Shape:    listview.ShapeEnveloped,
			ItemsKey: "data",
		})

		raw, err := fetch(ctx, listview.NewListRequest(1, 0, nil))
		Expect(err).ToNot(HaveOccurred())

		page := listview.Resolve(raw, listview.NewListRequest(1, 0, nil))
		Expect(page.Items).To(HaveLen(1))
		Expect(page.Total).To(Equal(31))
	})

	It("degrades an undecodable body to a malformed response", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		}
		fetch := restclient.NewFetchFunc[appointment](client, restclient.Endpoint{Path: "/appointments"})

		raw, err := fetch(ctx, listview.ListRequest{})

		Expect(err).ToNot(HaveOccurred())
		Expect(raw.IsMalformed()).To(BeTrue())
	})

	It("reports non-2xx statuses as rejections", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}
		fetch := restclient.NewFetchFunc[appointment](client, restclient.Endpoint{Path: "/appointments"})

		_, err := fetch(ctx, listview.ListRequest{})

		rejected, ok := listview.AsFetchRejected(err)
		Expect(ok).To(BeTrue())
		Expect(rejected.StatusCode).To(Equal(http.StatusForbidden))
		Expect(rejected.Body).To(Equal("nope"))
	})

	It("reports transport failures as network failures", func() {
		server.Close()
		fetch := restclient.NewFetchFunc[appointment](client, restclient.Endpoint{Path: "/appointments"})

		_, err := fetch(ctx, listview.ListRequest{})

		Expect(listview.IsNetworkFailure(err)).To(BeTrue())
	})

	Describe("unsupported filters", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Has("insurer") {
					http.Error(w, "unknown filter insurer", http.StatusBadRequest)
					return
				}
				w.Write([]byte(`[{"id":"a-1"}]`))
			}
		})

		It("retries once without them after a 400", func() {
			fetch := restclient.NewFetchFunc[appointment](client, restclient.Endpoint{
				Path:               "/appointments",
				UnsupportedFilters: []string{"insurer"},
			})

			raw, err := fetch(ctx, listview.NewListRequest(10, 0, listview.Filters{"insurer": "acme", "plate": "A"}))
			Expect(err).ToNot(HaveOccurred())

			Expect(raw.Items()).To(HaveLen(1))
			Expect(queries).To(HaveLen(2))
			Expect(queries[1].Has("insurer")).To(BeFalse())
			Expect(queries[1].Get("plate")).To(Equal("A"))
		})

		It("does not retry endpoints without the fallback", func() {
			fetch := restclient.NewFetchFunc[appointment](client, restclient.Endpoint{Path: "/appointments"})

			_, err := fetch(ctx, listview.NewListRequest(10, 0, listview.Filters{"insurer": "acme"}))

			Expect(err).To(HaveOccurred())
			Expect(queries).To(HaveLen(1))
		})
	})

	It("plugs into a search source", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items":[{"id":"a-1"},{"id":"a-2"}],"total":2}`))
		}
		search := source.NewSearch(restclient.NewFetchFunc[appointment](client, restclient.Endpoint{
			Path:  "/appointments/search",
			Shape: listview.ShapeEnveloped,
		}))

		page, err := search.List(ctx, listview.NewListRequest(10, 0, listview.Filters{"q": "abc"}))
		Expect(err).ToNot(HaveOccurred())

		Expect(page.Total).To(Equal(2))
		Expect(page.Metadata.Source).To(Equal(source.NameSearch))
		Expect(queries[0].Get("q")).To(Equal("abc"))
	})
})

var _ = Describe("New", func() {
	It("rejects relative base URLs", func() {
		_, err := restclient.New("/api")
		Expect(err).To(HaveOccurred())
	})

	Describe("WithTimeout", func() {
		var server *httptest.Server

		BeforeEach(func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(time.Second):
				case <-r.Context().Done():
				}
				_, _ = w.Write([]byte(`[]`))
			}))
			DeferCleanup(server.Close)
		})

		DescribeTable("applies to a supplied client without modifying it",
			func(timeoutFirst bool) {
				supplied := &http.Client{}
				opts := []restclient.Option{restclient.WithHTTPClient(supplied)}
				if timeoutFirst {
					opts = append([]restclient.Option{restclient.WithTimeout(50 * time.Millisecond)}, opts...)
				} else {
					opts = append(opts, restclient.WithTimeout(50*time.Millisecond))
				}
				client, err := restclient.New(server.URL, opts...)
				Expect(err).ToNot(HaveOccurred())

				_, err = client.Get(context.Background(), "/appointments", nil)

				Expect(listview.IsNetworkFailure(err)).To(BeTrue())
				Expect(supplied.Timeout).To(BeZero())
			},
			Entry("timeout before client", true),
			Entry("timeout after client", false),
		)
	})
})
