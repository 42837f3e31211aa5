package dashboard_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/finance-dashboard/internal/bill"
	"github.com/zombor/finance-dashboard/internal/dashboard"
	"github.com/zombor/finance-dashboard/internal/finance"
	"github.com/zombor/finance-dashboard/internal/scanning"
)

// fakeOCR stands in for Tesseract, returning canned text for any image
type fakeOCR struct {
	mu        sync.Mutex
	text      string
	languages []string
	images    []*scanning.Image
	closed    int
}

func (f *fakeOCR) factory(language string) (scanning.Worker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.languages = append(f.languages, language)
	return &fakeWorker{ocr: f}, nil
}

type fakeWorker struct {
	ocr *fakeOCR
}

func (w *fakeWorker) Recognize(ctx context.Context, img *scanning.Image) (string, error) {
	w.ocr.mu.Lock()
	defer w.ocr.mu.Unlock()
	w.ocr.images = append(w.ocr.images, img)
	return w.ocr.text, nil
}

func (w *fakeWorker) Close() error {
	w.ocr.mu.Lock()
	defer w.ocr.mu.Unlock()
	w.ocr.closed++
	return nil
}

func billPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("Integration", func() {
	var (
		ocr      *fakeOCR
		session  *bill.Session
		server   *dashboard.Server
		ghServer *ghttp.Server
	)

	upload := func(filename string, data []byte) *http.Response {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		req, err := http.NewRequest("POST", ghServer.URL()+"/api/scans", body)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	currentState := func() bill.State {
		resp, err := http.Get(ghServer.URL() + "/api/scans/current")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		var state bill.State
		Expect(json.NewDecoder(resp.Body).Decode(&state)).To(Succeed())
		return state
	}

	BeforeEach(func() {
		ocr = &fakeOCR{text: "STORE: Fresh Mart\n12 Main St\nDate 07/21/2024\nTOTAL $45.99\nThank you"}

		// Real normalization, recognition wiring and extraction; only the
		// OCR engine is faked. No camera is attached.
		pipeline := scanning.NewPipeline(scanning.NewRecognizer("", ocr.factory))
		session = bill.NewSession(pipeline, nil)
		server = dashboard.NewServer(session, finance.NewLedger(), nil)

		ghServer = ghttp.NewServer()
	})

	AfterEach(func() {
		if ghServer != nil {
			ghServer.Close()
		}
		Expect(session.Close()).To(Succeed())
	})

	It("should scan an uploaded bill and save it", func() {
		ghServer.AppendHandlers(
			server.ServeHTTP, // scan
			server.ServeHTTP, // state
			server.ServeHTTP, // save
		)

		// --- Step 1: Scan Request ---
		resp := upload("bill.png", billPNG())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		respBody, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		var record scanning.Record
		Expect(json.Unmarshal(respBody, &record)).To(Succeed())
		Expect(record).To(Equal(scanning.Record{Amount: "45.99", Date: "07/21/2024", Merchant: "Fresh Mart"}))

		// The OCR engine saw a normalized JPEG at native size
		Expect(ocr.languages).To(Equal([]string{scanning.DefaultLanguage}))
		Expect(ocr.images).To(HaveLen(1))
		Expect(ocr.images[0].MIMEType).To(Equal(scanning.NormalizedMIMEType))
		Expect(ocr.images[0].Width).To(Equal(120))
		Expect(ocr.images[0].Height).To(Equal(80))
		Expect(ocr.closed).To(Equal(1))

		// --- Step 2: State Request ---
		state := currentState()
		Expect(state.Record).NotTo(BeNil())
		Expect(*state.Record).To(Equal(record))
		Expect(state.Processing).To(BeFalse())

		// --- Step 3: Save Request ---
		saveResp, err := http.Post(ghServer.URL()+"/api/scans/current/save", "application/json", nil)
		Expect(err).NotTo(HaveOccurred())
		defer saveResp.Body.Close()
		Expect(saveResp.StatusCode).To(Equal(http.StatusOK))
	})

	It("should keep the previous record when a later image cannot be decoded", func() {
		ghServer.AppendHandlers(
			server.ServeHTTP, // good scan
			server.ServeHTTP, // bad scan
			server.ServeHTTP, // state
		)

		upload("bill.png", billPNG()).Body.Close()

		resp := upload("broken.jpg", []byte("definitely not a jpeg"))
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))

		state := currentState()
		Expect(state.Error).To(Equal(bill.MessageProcessingFailed))
		Expect(state.Record).NotTo(BeNil())
		Expect(state.Record.Merchant).To(Equal("Fresh Mart"))
		Expect(ocr.images).To(HaveLen(1))
	})

	It("should report camera failures when no camera is attached", func() {
		ghServer.AppendHandlers(server.ServeHTTP, server.ServeHTTP)

		resp, err := http.Post(ghServer.URL()+"/api/camera", "application/json", nil)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))

		state := currentState()
		Expect(state.Error).To(Equal(bill.MessageCameraFailed))
		Expect(state.CameraOpen).To(BeFalse())
	})
})
