package advice

import (
	"github.com/google/generative-ai-go/genai"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("responseText", func() {
	candidate := func(parts ...genai.Part) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: parts}}},
		}
	}

	DescribeTable("empty responses",
		func(resp *genai.GenerateContentResponse) {
			_, err := responseText(resp)
			Expect(err).To(MatchError("no response from gemini"))
		},
		Entry("nil response", nil),
		Entry("no candidates", &genai.GenerateContentResponse{}),
		Entry("nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}),
		Entry("no parts", candidate()),
	)

	It("should join the text parts and trim them", func() {
		text, err := responseText(candidate(genai.Text("  Spend "), genai.Text("less. \n")))
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("Spend less."))
	})

	It("should skip parts that are not text", func() {
		text, err := responseText(candidate(genai.Blob{MIMEType: "image/png", Data: []byte{1}}, genai.Text("ok")))
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("ok"))
	})

	It("should read only the first candidate", func() {
		resp := candidate(genai.Text("first"))
		resp.Candidates = append(resp.Candidates, &genai.Candidate{Content: &genai.Content{Parts: []genai.Part{genai.Text("second")}}})
		Expect(responseText(resp)).To(Equal("first"))
	})
})

var _ = Describe("geminiHistory", func() {
	It("should map assistant turns to the model role", func() {
		contents := geminiHistory([]Message{
			{Role: RoleUser, Content: "How am I doing?"},
			{Role: RoleAssistant, Content: "Fine."},
			{Role: "system", Content: "odd"},
		})
		Expect(contents).To(HaveLen(3))
		Expect(contents[0].Role).To(Equal("user"))
		Expect(contents[1].Role).To(Equal("model"))
		Expect(contents[2].Role).To(Equal("user"))
		Expect(contents[1].Parts).To(Equal([]genai.Part{genai.Text("Fine.")}))
	})

	It("should return an empty history for no messages", func() {
		Expect(geminiHistory(nil)).To(BeEmpty())
	})
})
