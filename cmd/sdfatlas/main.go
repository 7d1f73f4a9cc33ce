// Command sdfatlas prerenders glyphs into an atlas and saves its pages as
// PNG images.
//
// It runs on the noop GPU backend, so it needs no graphics device and can
// be used to inspect packing and distance fields offline.
//
// Usage:
//
//	sdfatlas -font DejaVuSans.ttf -size 48 -mode sdf -radius 8 -output atlas
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/sdftext"
	"github.com/gogpu/sdftext/atlas"
	"github.com/gogpu/sdftext/sdf"
)

const ascii = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

func main() {
	var (
		fontPath = flag.String("font", "", "TTF/OTF file (default: Go Regular)")
		size     = flag.Float64("size", 32, "font size in pixels")
		mode     = flag.String("mode", "sdf", "glyph mode: raw or sdf")
		radius   = flag.Float64("radius", 6, "SDF spread in texels")
		chars    = flag.String("chars", ascii, "characters to prerender")
		pageSize = flag.Int("page", 512, "atlas page size in texels")
		parser   = flag.String("parser", "", "font backend (sfnt or gotext)")
		output   = flag.String("output", "atlas", "output file prefix")
		verbose  = flag.Bool("v", false, "log atlas activity")
	)
	flag.Parse()

	if *verbose {
		sdftext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	data := goregular.TTF
	if *fontPath != "" {
		var err error
		data, err = os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("Failed to read font: %v", err)
		}
	}

	if err := run(data, *size, *mode, *radius, *chars, *pageSize, *parser, *output); err != nil {
		log.Fatal(err)
	}
}

func run(data []byte, size float64, mode string, radius float64, chars string, pageSize int, parser, output string) error {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	defer instance.Destroy()
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no adapters")
	}
	dev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	defer dev.Device.Destroy()

	cfg := atlas.DefaultConfig()
	cfg.PageSize = pageSize
	cfg.MaxPages = 64
	r, err := sdftext.NewRenderer(dev.Device, dev.Queue, sdftext.WithAtlasConfig(cfg))
	if err != nil {
		return err
	}
	defer r.Close()

	px := sdftext.Px(float32(size))
	opts := []sdftext.FontOption{sdftext.WithParser(parser)}
	var font *sdftext.Font
	switch mode {
	case "raw":
		font, err = r.LoadFont(data, px, opts...)
	case "sdf":
		sc := sdf.DefaultConfig()
		sc.Radius = float32(radius)
		font, err = r.LoadFontWithSDF(data, px, sc, opts...)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return err
	}

	if err := r.PrerenderGlyphs(font, chars); err != nil {
		return err
	}

	for p := range font.PageCount() {
		img, err := font.PageImage(p)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s_%d.png", output, p)
		if err := savePNG(name, img); err != nil {
			return err
		}
	}

	st := font.Stats()
	log.Printf("%d glyphs on %d page(s) of %dx%d saved to %s_*.png\n",
		st.Entries, st.Pages, pageSize, pageSize, output)
	return nil
}

func savePNG(path string, img *image.Gray) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
