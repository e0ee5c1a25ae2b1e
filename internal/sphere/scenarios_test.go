package sphere_test

import (
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spherebox/internal/sphere"
)

var _ = Describe("Motion", func() {
	var box sphere.Box

	BeforeEach(func() {
		box = sphere.Cube(5)
	})

	Context("a sphere leaving through a wall", func() {
		It("is clamped to the wall and bounces back", func() {
			m, err := sphere.FromSpheres(sphere.Options{Bounds: box}, []sphere.Sphere{
				{Pos: mgl32.Vec3{5.5, 0, 0}, Vel: mgl32.Vec3{2, 0, 0}, R: 1},
			})
			Expect(err).NotTo(HaveOccurred())

			m.Update(0.1)

			s := m.Spheres()[0]
			Expect(s.Pos.X()).To(BeNumerically("==", 5))
			Expect(s.Vel.X()).To(BeNumerically("==", -2))
		})
	})

	Context("two overlapping spheres", func() {
		var m *sphere.Motion

		BeforeEach(func() {
			var err error
			m, err = sphere.FromSpheres(sphere.Options{Bounds: box}, []sphere.Sphere{
				{Pos: mgl32.Vec3{0, 0, 0}, Vel: mgl32.Vec3{1, 0, 0}, R: 1},
				{Pos: mgl32.Vec3{1, 0, 0}, Vel: mgl32.Vec3{-1, 0, 0}, R: 1},
			})
			Expect(err).NotTo(HaveOccurred())
			m.Update(0)
		})

		It("counts one contact", func() {
			Expect(m.CollisionCount()).To(Equal(1))
		})

		It("leaves the centres two units apart", func() {
			p := m.Positions()
			Expect(p[0].Sub(p[1]).Len()).To(BeNumerically("~", 2, 1e-5))
		})

		It("keeps their midpoint", func() {
			p := m.Positions()
			Expect(p[0].Add(p[1]).Mul(0.5).ApproxEqualThreshold(mgl32.Vec3{0.5, 0, 0}, 1e-6)).To(BeTrue())
		})
	})

	Context("coincident spheres", func() {
		It("leaves them in place", func() {
			m, err := sphere.FromSpheres(sphere.Options{Bounds: box}, []sphere.Sphere{
				{Pos: mgl32.Vec3{1, 1, 1}, R: 1},
				{Pos: mgl32.Vec3{1, 1, 1}, R: 1},
			})
			Expect(err).NotTo(HaveOccurred())

			m.Update(0)

			Expect(m.CollisionCount()).To(BeZero())
			Expect(m.Positions()).To(HaveEach(mgl32.Vec3{1, 1, 1}))
		})
	})

	Context("a random population", func() {
		It("never changes size", func() {
			m, err := sphere.New(sphere.Options{N: 12, Bounds: box, Radius: 0.5, Speed: 4, Seed: 11})
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 200; i++ {
				m.Update(0.02)
				Expect(m.Positions()).To(HaveLen(12))
			}
		})

		It("keeps a lone sphere inside the box", func() {
			m, err := sphere.New(sphere.Options{N: 1, Bounds: box, Radius: 0.5, Speed: 30, Seed: 11})
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 500; i++ {
				m.Update(0.02)
				Expect(box.Contains(m.Positions()[0])).To(BeTrue())
			}
		})
	})

	DescribeTable("rejects invalid options",
		func(opts sphere.Options) {
			_, err := sphere.New(opts)
			Expect(err).To(MatchError(sphere.ErrInvalidOptions))
		},
		Entry("no spheres", sphere.Options{Bounds: sphere.Cube(1), Radius: 1}),
		Entry("zero radius", sphere.Options{N: 1, Bounds: sphere.Cube(1)}),
		Entry("inverted box", sphere.Options{N: 1, Radius: 1, Bounds: sphere.Box{Min: mgl32.Vec3{1, 1, 1}}}),
	)
})
