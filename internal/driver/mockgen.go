//go:build gomock || generate

package driver

//go:generate sh -c "go run go.uber.org/mock/mockgen -package driver -destination mock_driver.go -source=driver.go Driver,StreamSession"
