package queue

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/okian/skillwheel/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func click(session, name string) Trigger {
	return Trigger{Kind: model.TriggerClick, SessionID: session, Ring: model.RingSkill, Name: name}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with capacity 2", t, func() {
		q := NewInMemoryQueue(WithCapacity(2))
		So(q.Len(ctx), ShouldEqual, 0)

		Convey("When two triggers are enqueued", func() {
			So(q.Enqueue(ctx, click("s1", "x")), ShouldBeTrue)
			So(q.Enqueue(ctx, click("s1", "y")), ShouldBeTrue)

			Convey("Then a third is refused as full", func() {
				So(q.Enqueue(ctx, click("s1", "z")), ShouldBeFalse)
				So(errors.Is(q.TryEnqueue(ctx, click("s1", "z")), ErrFull), ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("Then they are dequeued in order", func() {
				out := q.Dequeue(ctx)
				So((<-out).Name, ShouldEqual, "x")
				So((<-out).Name, ShouldEqual, "y")
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			So(errors.Is(q.TryEnqueue(cctx, click("s1", "x")), context.Canceled), ShouldBeTrue)
		})
	})

	Convey("Given a closed queue with pending triggers", t, func() {
		q := NewInMemoryQueue(WithCapacity(4))
		So(q.Enqueue(ctx, click("s1", "x")), ShouldBeTrue)
		So(q.Close(), ShouldBeNil)

		Convey("Then new triggers are refused", func() {
			So(q.IsClosed(), ShouldBeTrue)
			So(errors.Is(q.TryEnqueue(ctx, click("s1", "y")), ErrClosed), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
		})

		Convey("Then pending triggers drain and the channel closes", func() {
			out := q.Dequeue(ctx)
			So((<-out).Name, ShouldEqual, "x")
			select {
			case _, ok := <-out:
				So(ok, ShouldBeFalse)
			case <-time.After(time.Second):
				So("channel still open", ShouldBeEmpty)
			}
		})
	})

	Convey("Given concurrent producers", t, func() {
		q := NewInMemoryQueue(WithCapacity(1000))
		done := make(chan struct{})
		for p := 0; p < 10; p++ {
			go func(p int) {
				for i := 0; i < 50; i++ {
					q.Enqueue(ctx, click("s"+strconv.Itoa(p), strconv.Itoa(i)))
				}
				done <- struct{}{}
			}(p)
		}
		for p := 0; p < 10; p++ {
			<-done
		}

		Convey("Then every trigger is held", func() {
			So(q.Len(ctx), ShouldEqual, 500)
		})
	})
}
