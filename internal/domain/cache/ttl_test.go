package cache

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTTL(t *testing.T) {
	Convey("Given a TTL cache", t, func() {
		c := New[string](WithName("test"), WithDefaultTTL(time.Minute))

		Convey("When a value is set", func() {
			c.Set("k", "v", time.Minute)

			Convey("Then it can be read back before expiry", func() {
				v, ok := c.Get("k")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "v")
				So(c.Has("k"), ShouldBeTrue)
				So(c.Len(), ShouldEqual, 1)
				So(c.Keys(), ShouldResemble, []string{"k"})
			})

			Convey("Then Set on the same key replaces the value", func() {
				c.Set("k", "v2", time.Minute)
				v, _ := c.Get("k")
				So(v, ShouldEqual, "v2")
				So(c.Len(), ShouldEqual, 1)
			})

			Convey("Then Delete removes it", func() {
				So(c.Delete("k"), ShouldBeTrue)
				So(c.Has("k"), ShouldBeFalse)
				So(c.Delete("k"), ShouldBeFalse)
			})

			Convey("Then Clear removes everything", func() {
				c.Set("other", "x", time.Minute)
				c.Clear()
				So(c.Len(), ShouldEqual, 0)
				So(c.Keys(), ShouldBeEmpty)
			})
		})

		Convey("When reading a missing key", func() {
			v, ok := c.Get("missing")

			Convey("Then it reports a miss with the zero value", func() {
				So(ok, ShouldBeFalse)
				So(v, ShouldEqual, "")
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When ttl is not positive", func() {
			c.Set("k", "v", 0)

			Convey("Then the default TTL applies", func() {
				So(c.Has("k"), ShouldBeTrue)
			})
		})
	})
}

func TestTTLExpiry(t *testing.T) {
	Convey("Given a short-lived entry", t, func() {
		c := New[int](WithName("expiry"))
		c.Set("k", 1, 30*time.Millisecond)

		Convey("When the TTL elapses", func() {
			time.Sleep(80 * time.Millisecond)

			Convey("Then the entry is gone", func() {
				_, ok := c.Get("k")
				So(ok, ShouldBeFalse)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the entry is replaced with a longer TTL before expiry", func() {
			c.Set("k", 2, time.Minute)
			time.Sleep(80 * time.Millisecond)

			Convey("Then the old timer does not evict the new value", func() {
				v, ok := c.Get("k")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 2)
			})
		})
	})
}

func TestTTLLazyExpiry(t *testing.T) {
	Convey("Given a cache with a controllable clock", t, func() {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		var mu sync.Mutex
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		c := New[string](WithClock(clock))
		c.Set("k", "v", time.Hour)

		Convey("When the clock passes the deadline before the timer fires", func() {
			mu.Lock()
			now = now.Add(2 * time.Hour)
			mu.Unlock()

			Convey("Then reads already treat the entry as expired", func() {
				So(c.Has("k"), ShouldBeFalse)
				So(c.Len(), ShouldEqual, 0)
				So(c.Keys(), ShouldBeEmpty)
			})
		})
	})
}

func TestTTLConcurrentAccess(t *testing.T) {
	Convey("Given concurrent writers and readers", t, func() {
		c := New[int]()
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					c.Set("shared", i*j, time.Minute)
					c.Get("shared")
				}
			}(i)
		}
		wg.Wait()

		Convey("Then exactly one live entry exists for the key", func() {
			So(c.Len(), ShouldEqual, 1)
		})
	})
}

func TestKeys(t *testing.T) {
	Convey("Given query text", t, func() {
		So(SearchKey("  iPhone   15 Pro "), ShouldEqual, "search:iphone 15 pro")
		So(SearchKey("IPHONE 15 PRO"), ShouldEqual, SearchKey("iphone 15 pro"))
		So(ClassifierKey("category", " Tomato "), ShouldEqual, "llm:category:tomato")
	})
}
