package filtering

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
	"github.com/rode/es-query-builder/go/v1beta1/querybuilder/esutil"
)

func compileToJson(filter Filter) string {
	query, err := CompileFilter(filter)
	Expect(err).ToNot(HaveOccurred())

	_, json := esutil.EncodeRequest(query)
	return json
}

var _ = Describe("CompileFilter", func() {
	It("should compile a nil filter to an empty bool query", func() {
		Expect(compileToJson(nil)).To(Equal(`{"bool":{}}`))
	})

	It("should compile an empty group to an empty bool query", func() {
		Expect(compileToJson(&Group{})).To(Equal(`{"bool":{}}`))
	})

	It("should compile a filter input without a key as a container only", func() {
		input := &FilterInput{Operator: OperatorEquals, Values: []string{"ignored"}}

		Expect(compileToJson(input.Filter())).To(Equal(`{"bool":{}}`))
	})

	It("should compile equality to a disjunction of term clauses", func() {
		query, err := CompileFilter(&Leaf{Key: "name", Operator: OperatorEquals, Values: []string{"John"}})

		Expect(err).ToNot(HaveOccurred())
		Expect(query).To(Equal(&esutil.Query{
			Bool: &esutil.Bool{
				Must: []*esutil.Query{
					{
						Bool: &esutil.Bool{
							Should: []*esutil.Query{
								{Term: esutil.Term{"name": "John"}},
							},
						},
					},
				},
			},
		}))
		Expect(query.Bool.Should).To(BeEmpty())
	})

	It("should compile inequality to a negated conjunction of term clauses", func() {
		Expect(compileToJson(&Leaf{Key: "name", Operator: OperatorNotEquals, Values: []string{"John"}})).
			To(MatchJSON(`{"bool":{"must":[{"bool":{"must_not":[{"term":{"name":"John"}}]}}]}}`))
	})

	It("should compile contains to a disjunction of phrase matches", func() {
		Expect(compileToJson(&Leaf{Key: "name", Operator: OperatorContains, Values: []string{"John", "Jane"}})).
			To(MatchJSON(`{"bool":{"must":[{"bool":{"should":[
				{"match_phrase":{"name":"John"}},
				{"match_phrase":{"name":"Jane"}}
			]}}]}}`))
	})

	DescribeTable("range operators", func(operator Operator) {
		value := fmt.Sprint(fake.Number(1, 100))

		Expect(compileToJson(&Leaf{Key: "age", Operator: operator, Values: []string{value}})).
			To(MatchJSON(fmt.Sprintf(`{"bool":{"must":[{"range":{"age":{"%s":"%s"}}}]}}`, operator, value)))
	},
		Entry("greater", OperatorGreater),
		Entry("greater or equal", OperatorGreaterEquals),
		Entry("less", OperatorLess),
		Entry("less or equal", OperatorLessEquals),
	)

	DescribeTable("range operators with the wrong number of values", func(operator Operator, values []string) {
		query, err := CompileFilter(&Leaf{Key: "age", Operator: operator, Values: values})

		Expect(query).To(BeNil())
		var invalidCount *InvalidRangeValueCountError
		Expect(errors.As(err, &invalidCount)).To(BeTrue())
		Expect(invalidCount.Count).To(Equal(len(values)))
		Expect(invalidCount.Key).To(Equal("age"))
	},
		Entry("gt without values", OperatorGreater, nil),
		Entry("gte with two values", OperatorGreaterEquals, []string{"1", "2"}),
		Entry("lt with an empty list", OperatorLess, []string{}),
		Entry("lte with three values", OperatorLessEquals, []string{"1", "2", "3"}),
	)

	It("should compile exists while ignoring values", func() {
		Expect(compileToJson(&Leaf{Key: "name", Operator: OperatorExists, Values: []string{"whatever", "else"}})).
			To(MatchJSON(`{"bool":{"must":[{"exists":{"field":"name"}}]}}`))
	})

	It("should return an error for unsupported operators", func() {
		operator := Operator(fake.LetterN(10))
		_, err := CompileFilter(&Leaf{Key: "name", Operator: operator, Values: []string{"x"}})

		var unsupported *UnsupportedOperatorError
		Expect(errors.As(err, &unsupported)).To(BeTrue())
		Expect(unsupported.Operator).To(Equal(operator))
	})

	It("should surface errors from deeply nested children", func() {
		_, err := CompileFilter(&Group{
			Or: []Filter{
				&Group{
					And: []Filter{
						&Leaf{Key: "age", Operator: OperatorGreater},
					},
				},
			},
		})

		var invalidCount *InvalidRangeValueCountError
		Expect(errors.As(err, &invalidCount)).To(BeTrue())
		Expect(err.Error()).To(HavePrefix("or[0]: and[0]: "))
	})

	Context("groups", func() {
		It("should put and children followed by the own condition in must, and or children in should", func() {
			input := &FilterInput{
				Key:      "status",
				Operator: OperatorEquals,
				Values:   []string{"active"},
				And: []FilterInput{
					{Key: "age", Operator: OperatorGreaterEquals, Values: []string{"18"}},
				},
				Or: []FilterInput{
					{Key: "role", Operator: OperatorEquals, Values: []string{"admin"}},
					{Key: "verified", Operator: OperatorExists},
				},
			}

			Expect(compileToJson(input.Filter())).To(MatchJSON(`{"bool":{
				"must":[
					{"bool":{"must":[{"range":{"age":{"gte":"18"}}}]}},
					{"bool":{"should":[{"term":{"status":"active"}}]}}
				],
				"should":[
					{"bool":{"must":[{"bool":{"should":[{"term":{"role":"admin"}}]}}]}},
					{"bool":{"must":[{"exists":{"field":"verified"}}]}}
				]
			}}`))
		})
	})

	Context("dotted keys", func() {
		It("should wrap the clause in one nested query per parent segment", func() {
			Expect(compileToJson(&Leaf{Key: "company.employees.name", Operator: OperatorEquals, Values: []string{"John"}})).
				To(MatchJSON(`{"bool":{"must":[{"bool":{"should":[
					{"nested":{"path":"company","query":
						{"nested":{"path":"company.employees","query":
							{"term":{"company.employees.name":"John"}}
						}}
					}}
				]}}]}}`))
		})

		It("should nest negated clauses inside the must_not", func() {
			Expect(compileToJson(&Leaf{Key: "tags.name", Operator: OperatorNotEquals, Values: []string{"spam"}})).
				To(MatchJSON(`{"bool":{"must":[{"bool":{"must_not":[
					{"nested":{"path":"tags","query":{"term":{"tags.name":"spam"}}}}
				]}}]}}`))
		})

		It("should stop nesting at a segment carrying the literal marker", func() {
			Expect(compileToJson(&Leaf{Key: "comments.$author.keyword", Operator: OperatorExists})).
				To(MatchJSON(`{"bool":{"must":[
					{"nested":{"path":"comments","query":{"exists":{"field":"comments.author.keyword"}}}}
				]}}`))
		})

		It("should not nest at all when the first segment is marked", func() {
			Expect(compileToJson(&Leaf{Key: "$address.city", Operator: OperatorGreater, Values: []string{"a"}})).
				To(MatchJSON(`{"bool":{"must":[{"range":{"address.city":{"gt":"a"}}}]}}`))
		})
	})

	It("should produce identical output for repeated compilation without mutating the input", func() {
		leaf := &Leaf{Key: "a.b", Operator: OperatorContains, Values: []string{"x", "y"}}
		group := &Group{And: []Filter{leaf}, Or: []Filter{&Leaf{Key: "c", Operator: OperatorExists}}}

		first, err := CompileFilter(group)
		Expect(err).ToNot(HaveOccurred())
		second, err := CompileFilter(group)
		Expect(err).ToNot(HaveOccurred())

		Expect(first).To(Equal(second))
		Expect(first).ToNot(BeIdenticalTo(second))
		Expect(leaf).To(Equal(&Leaf{Key: "a.b", Operator: OperatorContains, Values: []string{"x", "y"}}))
	})
})

var _ = Describe("CompileFilters", func() {
	It("should compile an empty list to an empty bool query", func() {
		query, err := CompileFilters(nil)

		Expect(err).ToNot(HaveOccurred())
		Expect(query).To(Equal(esutil.NewBoolQuery()))
	})

	It("should conjoin every compiled filter", func() {
		query, err := CompileFilters([]Filter{
			&Leaf{Key: "name", Operator: OperatorEquals, Values: []string{"John"}},
			&Leaf{Key: "age", Operator: OperatorLess, Values: []string{"30"}},
		})
		Expect(err).ToNot(HaveOccurred())

		_, json := esutil.EncodeRequest(query)
		Expect(json).To(MatchJSON(`{"bool":{"must":[
			{"bool":{"must":[{"bool":{"should":[{"term":{"name":"John"}}]}}]}},
			{"bool":{"must":[{"range":{"age":{"lt":"30"}}}]}}
		]}}`))
	})

	It("should report which filter failed", func() {
		_, err := CompileFilters([]Filter{
			&Leaf{Key: "name", Operator: OperatorExists},
			&Leaf{Key: "name", Operator: "like"},
		})

		Expect(err).To(MatchError(HavePrefix("filters[1]: ")))
	})
})
