package scanning

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// pngFixture encodes a solid image of the given size
func pngFixture(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

var _ = Describe("Normalize", func() {
	var (
		src Source
		img *Image
		err error
	)

	JustBeforeEach(func() {
		img, err = Normalize(src)
	})

	When("normalizing a PNG upload", func() {
		BeforeEach(func() {
			src = Source{Name: "bill.png", ContentType: "image/png", Data: pngFixture(37, 21)}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should re-encode as JPEG", func() {
			Expect(img.MIMEType).To(Equal("image/jpeg"))
			_, format, decodeErr := image.Decode(bytes.NewReader(img.Data))
			Expect(decodeErr).NotTo(HaveOccurred())
			Expect(format).To(Equal("jpeg"))
		})

		It("should keep the native dimensions", func() {
			Expect(img.Width).To(Equal(37))
			Expect(img.Height).To(Equal(21))
			decoded, decodeErr := imaging.Decode(bytes.NewReader(img.Data))
			Expect(decodeErr).NotTo(HaveOccurred())
			Expect(decoded.Bounds().Dx()).To(Equal(37))
			Expect(decoded.Bounds().Dy()).To(Equal(21))
		})

		It("should produce a JPEG data URL", func() {
			Expect(strings.HasPrefix(img.DataURL(), "data:image/jpeg;base64,")).To(BeTrue())
		})
	})

	When("the content type is missing", func() {
		BeforeEach(func() {
			src = Source{Name: "capture", Data: pngFixture(4, 4)}
		})

		It("should sniff the format from the data", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(img.Width).To(Equal(4))
		})
	})

	When("the data is not an image", func() {
		BeforeEach(func() {
			src = Source{Name: "notes.png", ContentType: "image/png", Data: []byte("definitely not pixels")}
		})

		It("returns the error", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported image format"))
		})
	})

	When("the data is empty", func() {
		BeforeEach(func() {
			src = Source{Name: "empty.jpg", ContentType: "image/jpeg"}
		})

		It("returns the error", func() {
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("isHEICFormat", func() {
	It("should detect a heic brand", func() {
		data := append([]byte{0, 0, 0, 24}, []byte("ftypheic0000")...)
		Expect(isHEICFormat(data)).To(BeTrue())
	})

	It("should reject short data", func() {
		Expect(isHEICFormat([]byte("ftyp"))).To(BeFalse())
	})

	It("should reject other brands", func() {
		data := append([]byte{0, 0, 0, 24}, []byte("ftypisom0000")...)
		Expect(isHEICFormat(data)).To(BeFalse())
	})
})

var _ = DescribeTable("IsImageType",
	func(mimeType string, expected bool) {
		Expect(IsImageType(mimeType)).To(Equal(expected))
	},
	Entry("jpeg", "image/jpeg", true),
	Entry("heic with spaces and caps", "  Image/HEIC ", true),
	Entry("pdf", "application/pdf", false),
	Entry("empty", "", false),
)
