package filtering

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("filterer", func() {
	var filterer Filterer

	BeforeEach(func() {
		filterer = NewFilterer()
	})

	DescribeTable("ParseExpression", func(expression string, expected Filter) {
		actual, err := filterer.ParseExpression(expression)

		Expect(err).ToNot(HaveOccurred())
		Expect(actual).To(Equal(expected))
	},
		Entry("equality", `a == "b"`, &Leaf{Key: "a", Operator: OperatorEquals, Values: []string{"b"}}),
		Entry("constant key", `"a" == "b"`, &Leaf{Key: "a", Operator: OperatorEquals, Values: []string{"b"}}),
		Entry("inequality", `a != "b"`, &Leaf{Key: "a", Operator: OperatorNotEquals, Values: []string{"b"}}),
		Entry("greater", `age > 30`, &Leaf{Key: "age", Operator: OperatorGreater, Values: []string{"30"}}),
		Entry("greater or equal", `age >= 30`, &Leaf{Key: "age", Operator: OperatorGreaterEquals, Values: []string{"30"}}),
		Entry("less", `score < 1.5`, &Leaf{Key: "score", Operator: OperatorLess, Values: []string{"1.5"}}),
		Entry("less or equal", `createdAt <= "2021-01-01"`, &Leaf{Key: "createdAt", Operator: OperatorLessEquals, Values: []string{"2021-01-01"}}),
		Entry("boolean constant", `active == true`, &Leaf{Key: "active", Operator: OperatorEquals, Values: []string{"true"}}),
		Entry("selected field", `user.name == "John"`, &Leaf{Key: "user.name", Operator: OperatorEquals, Values: []string{"John"}}),
		Entry("contains", `name.contains("oh")`, &Leaf{Key: "name", Operator: OperatorContains, Values: []string{"oh"}}),
		Entry("exists", `user.email.exists()`, &Leaf{Key: "user.email", Operator: OperatorExists}),
		Entry("in list", `role in ["admin", "owner"]`, &Leaf{Key: "role", Operator: OperatorEquals, Values: []string{"admin", "owner"}}),
		Entry("and", `a == "b" && c == "d"`, &Group{
			And: []Filter{
				&Leaf{Key: "a", Operator: OperatorEquals, Values: []string{"b"}},
				&Leaf{Key: "c", Operator: OperatorEquals, Values: []string{"d"}},
			},
		}),
		Entry("and with or set", `(a == "b") && ((c == "d") || (e == "f"))`, &Group{
			And: []Filter{
				&Leaf{Key: "a", Operator: OperatorEquals, Values: []string{"b"}},
				&Group{
					Or: []Filter{
						&Leaf{Key: "c", Operator: OperatorEquals, Values: []string{"d"}},
						&Leaf{Key: "e", Operator: OperatorEquals, Values: []string{"f"}},
					},
				},
			},
		}),
	)

	DescribeTable("invalid expressions", func(expression string) {
		actual, err := filterer.ParseExpression(expression)

		Expect(err).To(HaveOccurred())
		Expect(actual).To(BeNil())
	},
		Entry("syntax error", `a==`),
		Entry("bare identifier", `a`),
		Entry("unknown function", `name.startsWith("J")`),
		Entry("logical operand that is not a filter", `a && b == "c"`),
		Entry("in without a list", `role in "admin"`),
	)

	It("should report the position of syntax errors", func() {
		_, err := filterer.ParseExpression(`a==`)

		Expect(err).To(MatchError(ContainSubstring("(1:3)")))
	})

	It("should parse into a tree the compiler accepts", func() {
		filter, err := filterer.ParseExpression(`user.name == "John" && age > 30`)
		Expect(err).ToNot(HaveOccurred())

		Expect(compileToJson(filter)).To(MatchJSON(`{"bool":{"must":[
			{"bool":{"must":[{"bool":{"should":[
				{"nested":{"path":"user","query":{"term":{"user.name":"John"}}}}
			]}}]}},
			{"bool":{"must":[{"range":{"age":{"gt":"30"}}}]}}
		]}}`))
	})
})
