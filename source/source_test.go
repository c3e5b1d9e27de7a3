package source_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/listview-go"
	"github.com/nrfta/listview-go/source"
)

var _ = Describe("Paginated", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("never forwards filters", func() {
		fetch := respondWith(listview.Bare(jobs(3)))
		src := source.NewPaginated(fetch.fetch)

		_, err := src.List(ctx, listview.NewListRequest(10, 0, listview.Filters{"q": "civic"}))

		Expect(err).ToNot(HaveOccurred())
		Expect(fetch.requests).To(HaveLen(1))
		Expect(fetch.requests[0].Filters).To(BeEmpty())
		Expect(*fetch.requests[0].Limit).To(Equal(10))
	})

	It("reports its name in metadata", func() {
		src := source.NewPaginated(respondWith(listview.Bare(jobs(2))).fetch)

		page, err := src.List(ctx, listview.NewListRequest(10, 0, nil))

		Expect(err).ToNot(HaveOccurred())
		Expect(src.Name()).To(Equal(source.NamePaginated))
		Expect(page.Metadata.Source).To(Equal(source.NamePaginated))
		Expect(page.Metadata.ItemsExamined).To(Equal(2))
	})

	It("can be renamed", func() {
		src := source.NewPaginated(respondWith(listview.Bare(jobs(2))).fetch, source.WithName[repairJob]("archive"))
		Expect(src.Name()).To(Equal("archive"))
	})

	It("returns collaborator errors unchanged", func() {
		boom := errors.New("boom")
		src := source.NewPaginated(func(context.Context, listview.ListRequest) (listview.Response[repairJob], error) {
			return listview.Response[repairJob]{}, boom
		})

		page, err := src.List(ctx, listview.NewListRequest(10, 0, nil))

		Expect(page).To(BeNil())
		Expect(err).To(BeIdenticalTo(boom))
	})

	It("degrades a malformed response to an empty page", func() {
		src := source.NewPaginated(respondWith(listview.Malformed[repairJob](nil)).fetch)

		page, err := src.List(ctx, listview.NewListRequest(10, 20, nil))

		Expect(err).ToNot(HaveOccurred())
		Expect(page.Items).To(BeEmpty())
		Expect(page.Total).To(Equal(0))
		Expect(page.Metadata.DecodeFailed).To(BeTrue())
	})

	It("estimates one more page after a full page", func() {
		src := source.NewPaginated(respondWith(listview.Bare(jobs(10))).fetch)

		page, err := src.List(ctx, listview.NewListRequest(10, 0, nil))

		Expect(err).ToNot(HaveOccurred())
		Expect(page.Total).To(Equal(20))
		Expect(page.Metadata.TotalEstimated).To(BeTrue())
	})
})

var _ = Describe("Search", func() {
	It("forwards only active filters, trimmed", func() {
		fetch := respondWith(listview.Bare(jobs(1)))
		src := source.NewSearch(fetch.fetch)

		_, err := src.List(context.Background(), listview.NewListRequest(10, 0, listview.Filters{
			"q":      "  civic ",
			"status": " ",
		}))

		Expect(err).ToNot(HaveOccurred())
		Expect(fetch.requests[0].Filters).To(Equal(listview.Filters{"q": "civic"}))
		Expect(src.Name()).To(Equal(source.NameSearch))
	})

	It("trusts the declared total of an envelope", func() {
		src := source.NewSearch(respondWith(listview.Enveloped(listview.Envelope[repairJob]{
			Items: jobs(10),
			Total: intPtr(57),
		})).fetch)

		page, err := src.List(context.Background(), listview.NewListRequest(10, 0, listview.Filters{"q": "ab"}))

		Expect(err).ToNot(HaveOccurred())
		Expect(page.Total).To(Equal(57))
	})
})

var _ = Describe("soft-deleted rows", func() {
	var raw []repairJob

	BeforeEach(func() {
		raw = jobs(5)
		raw[1].Status = "voided"
		raw[3].Status = "voided"
	})

	It("are excluded before counting by the paginated source", func() {
		src := source.NewPaginated(respondWith(listview.Bare(raw)).fetch, source.WithExclude(voided))

		page, err := src.List(context.Background(), listview.NewListRequest(10, 0, nil))

		Expect(err).ToNot(HaveOccurred())
		Expect(ids(page.Items)).To(Equal([]string{"j00", "j02", "j04"}))
		Expect(page.Total).To(Equal(3))
		Expect(page.Metadata.ItemsExamined).To(Equal(5))
		Expect(page.Metadata.ItemsExcluded).To(Equal(2))
	})

	It("are excluded from a declared total by the search source", func() {
		src := source.NewSearch(respondWith(listview.Enveloped(listview.Envelope[repairJob]{
			Items: raw,
			Total: intPtr(5),
		})).fetch, source.WithExclude(voided))

		page, err := src.List(context.Background(), listview.NewListRequest(10, 0, listview.Filters{"q": "ab"}))

		Expect(err).ToNot(HaveOccurred())
		Expect(page.Items).To(HaveLen(3))
		Expect(page.Total).To(Equal(3))
	})

	DescribeTable("window a whole collection after exclusion",
		func(limit, offset int, want []string, wantOffset int) {
			src := source.NewPaginated(respondWith(listview.Bare(raw)).fetch, source.WithExclude(voided))

			page, err := src.List(context.Background(), listview.NewListRequest(limit, offset, nil))

			Expect(err).ToNot(HaveOccurred())
			Expect(ids(page.Items)).To(Equal(want))
			Expect(page.Offset).To(Equal(wantOffset))
			Expect(page.Total).To(Equal(3))
			Expect(page.Metadata.TotalEstimated).To(BeFalse())
		},
		Entry("limit equal to the kept rows", 3, 0, []string{"j00", "j02", "j04"}, 0),
		Entry("past the kept rows", 3, 3, []string{}, 3),
		Entry("limit below the kept rows", 2, 0, []string{"j00", "j02"}, 0),
		Entry("second window below the kept rows", 2, 2, []string{"j04"}, 2),
	)

	It("are excluded by every predicate", func() {
		src := source.NewPaginated(respondWith(listview.Bare(raw)).fetch,
			source.WithExclude(voided),
			source.WithExclude(func(j repairJob) bool { return j.ID == "j04" }),
		)

		page, err := src.List(context.Background(), listview.NewListRequest(10, 0, nil))

		Expect(err).ToNot(HaveOccurred())
		Expect(ids(page.Items)).To(Equal([]string{"j00", "j02"}))
	})
})

var _ = Describe("ordering", func() {
	It("sorts newest first before windowing", func() {
		src := source.NewPaginated(respondWith(listview.Bare(jobs(25))).fetch,
			source.WithOrder(source.ByTimeDesc(func(j repairJob) time.Time { return j.CreatedAt })),
		)

		page, err := src.List(context.Background(), listview.NewListRequest(5, 5, nil))

		Expect(err).ToNot(HaveOccurred())
		Expect(ids(page.Items)).To(Equal([]string{"j19", "j18", "j17", "j16", "j15"}))
		Expect(page.Total).To(Equal(25))
	})

	It("keeps backend order for equal timestamps", func() {
		rows := jobs(4)
		for i := range rows {
			rows[i].CreatedAt = epoch
		}
		rows[2].CreatedAt = epoch.Add(time.Hour)

		src := source.NewPaginated(respondWith(listview.Bare(rows)).fetch,
			source.WithOrder(source.ByTimeDesc(func(j repairJob) time.Time { return j.CreatedAt })),
		)

		page, err := src.List(context.Background(), listview.NewListRequest(10, 0, nil))

		Expect(err).ToNot(HaveOccurred())
		Expect(ids(page.Items)).To(Equal([]string{"j02", "j00", "j01", "j03"}))
	})

	It("sorts oldest first", func() {
		rows := jobs(3)
		rows[0], rows[2] = rows[2], rows[0]
		src := source.NewPaginated(respondWith(listview.Bare(rows)).fetch,
			source.WithOrder(source.ByTimeAsc(func(j repairJob) time.Time { return j.CreatedAt })),
		)

		page, err := src.List(context.Background(), listview.NewListRequest(10, 0, nil))

		Expect(err).ToNot(HaveOccurred())
		Expect(ids(page.Items)).To(Equal([]string{"j00", "j01", "j02"}))
	})
})

var _ = Describe("Select", func() {
	paginated := source.NewPaginated(respondWith(listview.Bare(jobs(1))).fetch)
	search := source.NewSearch(respondWith(listview.Bare(jobs(1))).fetch)

	DescribeTable("chooses by active filters",
		func(filters listview.Filters, want string) {
			Expect(source.Select[repairJob](filters, paginated, search).Name()).To(Equal(want))
		},
		Entry("no filters", nil, source.NamePaginated),
		Entry("blank filters", listview.Filters{"q": "   ", "status": ""}, source.NamePaginated),
		Entry("one active filter", listview.Filters{"q": "", "status": "open"}, source.NameSearch),
	)
})

var _ = Describe("FieldMatcher", func() {
	matcher := source.FieldMatcher(map[string]func(repairJob) string{
		"plate":    func(j repairJob) string { return j.Plate },
		"customer": func(j repairJob) string { return j.Customer },
	})
	job := repairJob{Plate: "AB-12-CD", Customer: "Ana Lima"}

	DescribeTable("matches case-insensitive substrings",
		func(filters listview.Filters, want bool) {
			Expect(matcher(job, filters)).To(Equal(want))
		},
		Entry("field hit", listview.Filters{"plate": "ab-12"}, true),
		Entry("field miss", listview.Filters{"plate": "zz"}, false),
		Entry("query on any field", listview.Filters{source.QueryFilter: "LIMA"}, true),
		Entry("query miss", listview.Filters{source.QueryFilter: "costa"}, false),
		Entry("every filter must hold", listview.Filters{"plate": "ab", "customer": "rui"}, false),
		Entry("blank filters are ignored", listview.Filters{"plate": "  "}, true),
		Entry("unknown filters are ignored", listview.Filters{"insurer": "acme"}, true),
	)

	It("trims the needle", func() {
		Expect(matcher(job, listview.Filters{"customer": strings.Repeat(" ", 3) + "ana "})).To(BeTrue())
	})
})
