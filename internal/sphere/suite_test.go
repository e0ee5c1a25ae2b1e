package sphere_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSphere(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Sphere Suite")
}
