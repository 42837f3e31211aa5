package scanning

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockWorker is a mock implementation of Worker
type mockWorker struct {
	text     string
	err      error
	closed   int
	received *Image
}

func (m *mockWorker) Recognize(ctx context.Context, img *Image) (string, error) {
	m.received = img
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func (m *mockWorker) Close() error {
	m.closed++
	return nil
}

var _ = Describe("Recognizer", func() {
	var (
		worker     *mockWorker
		languages  []string
		factoryErr error
		recognizer *Recognizer
		text       string
		err        error
	)

	BeforeEach(func() {
		worker = &mockWorker{text: "Total 9.99"}
		languages = nil
		factoryErr = nil
		recognizer = NewRecognizer("", func(language string) (Worker, error) {
			languages = append(languages, language)
			if factoryErr != nil {
				return nil, factoryErr
			}
			return worker, nil
		})
	})

	JustBeforeEach(func() {
		text, err = recognizer.Recognize(context.Background(), &Image{MIMEType: NormalizedMIMEType})
	})

	It("should default to the English model", func() {
		Expect(recognizer.Language()).To(Equal("eng"))
		Expect(languages).To(Equal([]string{"eng"}))
	})

	It("should return the transcript", func() {
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("Total 9.99"))
	})

	It("should close the worker", func() {
		Expect(worker.closed).To(Equal(1))
	})

	It("should open a new worker on every call", func() {
		_, err := recognizer.Recognize(context.Background(), &Image{})
		Expect(err).NotTo(HaveOccurred())
		Expect(languages).To(HaveLen(2))
		Expect(worker.closed).To(Equal(2))
	})

	When("recognition fails", func() {
		BeforeEach(func() {
			worker.err = errors.New("engine crashed")
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("engine crashed")))
			Expect(text).To(BeEmpty())
		})

		It("should still close the worker", func() {
			Expect(worker.closed).To(Equal(1))
		})
	})

	When("the worker cannot be initialized", func() {
		BeforeEach(func() {
			factoryErr = errors.New("missing traineddata")
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("initializing OCR worker")))
		})
	})
})

var _ = Describe("Pipeline", func() {
	var (
		worker   *mockWorker
		pipeline *Pipeline
		src      Source
		record   Record
		err      error
	)

	BeforeEach(func() {
		worker = &mockWorker{text: "Restaurant: Curry House\nTOTAL 1,250.00\n21-07-2024"}
		pipeline = NewPipeline(NewRecognizer("eng", func(string) (Worker, error) {
			return worker, nil
		}))
		src = Source{Name: "bill.png", ContentType: "image/png", Data: pngFixture(10, 10)}
	})

	JustBeforeEach(func() {
		record, err = pipeline.Scan(context.Background(), src)
	})

	It("should extract the record from the transcript", func() {
		Expect(err).NotTo(HaveOccurred())
		Expect(record).To(Equal(Record{Amount: "1,250.00", Date: "21-07-2024", Merchant: "Curry House"}))
	})

	It("should feed the normalized image to the recognizer", func() {
		Expect(worker.received).NotTo(BeNil())
		Expect(worker.received.MIMEType).To(Equal("image/jpeg"))
	})

	When("the image cannot be decoded", func() {
		BeforeEach(func() {
			src.Data = []byte("garbage")
		})

		It("returns the error without recognizing", func() {
			Expect(err).To(MatchError(ContainSubstring("normalizing image")))
			Expect(worker.received).To(BeNil())
		})
	})

	When("recognition fails", func() {
		BeforeEach(func() {
			worker.err = errors.New("boom")
		})

		It("returns the error and no record", func() {
			Expect(err).To(HaveOccurred())
			Expect(record).To(Equal(Record{}))
		})
	})
})
