package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/google/uuid"

	"github.com/BerniceZTT/course_funnel/models"
	"github.com/BerniceZTT/course_funnel/utils"
)

const (
	// 集合名
	StudentsCollection      = "students"
	FunnelRecordsCollection = "funnel_records"
	SalesCollection         = "sales"
	ProductsCollection      = "products"
)

const mongoRetries = 3

// MongoStore MongoDB 实现
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ RecordStore = (*MongoStore)(nil)

// NewMongoStore 连接 MongoDB 并确认集合存在
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	// 设置连接超时
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, unavailable("连接MongoDB失败", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, unavailable("ping MongoDB失败", err)
	}

	s := &MongoStore{client: client, db: client.Database(dbName)}
	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")

	if err := s.initializeCollections(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// initializeCollections 初始化数据库集合，并写入默认课程
func (s *MongoStore) initializeCollections(ctx context.Context) error {
	existing, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return unavailable("检查集合失败", err)
	}
	exists := make(map[string]bool, len(existing))
	for _, name := range existing {
		exists[name] = true
	}

	for _, collName := range []string{StudentsCollection, FunnelRecordsCollection, SalesCollection, ProductsCollection} {
		if exists[collName] {
			utils.Logger.Info().Str("collection", collName).Msg("集合已存在")
			continue
		}
		if err := s.db.CreateCollection(ctx, collName); err != nil {
			return unavailable("创建集合失败", err)
		}
		utils.Logger.Info().Str("collection", collName).Msg("创建集合成功")
	}

	products := s.db.Collection(ProductsCollection)
	count, err := products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return unavailable("计算课程数量失败", err)
	}
	if count > 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(models.DefaultProducts()))
	for _, p := range models.DefaultProducts() {
		docs = append(docs, p)
	}
	if _, err := products.InsertMany(ctx, docs); err != nil {
		return unavailable("写入默认课程失败", err)
	}
	utils.Logger.Info().Int("count", len(docs)).Msg("已写入默认课程")
	return nil
}

func (s *MongoStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := s.findAll(ctx, StudentsCollection, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}), &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (s *MongoStore) ListFunnelRecords(ctx context.Context) ([]models.FunnelRecord, error) {
	var records []models.FunnelRecord
	if err := s.findAll(ctx, FunnelRecordsCollection, bson.M{}, options.Find(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *MongoStore) GetFunnelRecord(ctx context.Context, studentID string) (*models.FunnelRecord, error) {
	rec, err := ExecuteDbOperation(ctx, mongoRetries, isRetryableError, func() (*models.FunnelRecord, error) {
		var rec models.FunnelRecord
		err := s.db.Collection(FunnelRecordsCollection).FindOne(ctx, bson.M{"_id": studentID}).Decode(&rec)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &rec, nil
	})
	if err != nil {
		return nil, unavailable("查询流程追踪记录失败", err)
	}
	utils.LogDbOperation("findOne", FunnelRecordsCollection, bson.M{"_id": studentID}, rec != nil)
	return rec, nil
}

func (s *MongoStore) SaveFunnelRecord(ctx context.Context, studentID string, rec models.FunnelRecord) error {
	rec.StudentID = studentID
	_, err := ExecuteDbOperation(ctx, mongoRetries, isRetryableError, func() (*mongo.UpdateResult, error) {
		return s.db.Collection(FunnelRecordsCollection).ReplaceOne(
			ctx,
			bson.M{"_id": studentID},
			rec,
			options.Replace().SetUpsert(true),
		)
	})
	if err != nil {
		return unavailable("保存流程追踪记录失败", err)
	}
	utils.LogDbOperation("replaceOne", FunnelRecordsCollection, bson.M{"_id": studentID}, rec.CurrentStage)
	return nil
}

func (s *MongoStore) AppendSale(ctx context.Context, studentID, courseID string, quantity int) (models.SaleRecord, error) {
	sale := models.SaleRecord{
		ID:        uuid.NewString(),
		StudentID: studentID,
		ProductID: courseID,
		Quantity:  quantity,
		Timestamp: time.Now().UTC(),
	}
	_, err := ExecuteDbOperation(ctx, mongoRetries, isRetryableError, func() (*mongo.InsertOneResult, error) {
		return s.db.Collection(SalesCollection).InsertOne(ctx, sale)
	})
	if err != nil {
		return models.SaleRecord{}, unavailable("新增成交记录失败", err)
	}
	return sale, nil
}

func (s *MongoStore) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	var sales []models.SaleRecord
	if err := s.findAll(ctx, SalesCollection, bson.M{}, options.Find().SetSort(bson.M{"timestamp": 1}), &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *MongoStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.findAll(ctx, ProductsCollection, bson.M{}, options.Find(), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Close 关闭MongoDB连接
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("断开MongoDB连接失败")
		return err
	}
	utils.Logger.Info().Msg("已断开MongoDB连接")
	return nil
}

func (s *MongoStore) findAll(ctx context.Context, collName string, filter bson.M, opts *options.FindOptions, out interface{}) error {
	_, err := ExecuteDbOperation(ctx, mongoRetries, isRetryableError, func() (struct{}, error) {
		cursor, err := s.db.Collection(collName).Find(ctx, filter, opts)
		if err != nil {
			return struct{}{}, err
		}
		defer cursor.Close(ctx)
		return struct{}{}, cursor.All(ctx, out)
	})
	if err != nil {
		return unavailable(fmt.Sprintf("查询集合 %s 失败", collName), err)
	}
	utils.LogDbOperation("find", collName, filter, nil)
	return nil
}

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	// MongoDB可重试错误代码
	retryableCodes := map[int32]bool{
		6:     true, // HostUnreachable
		7:     true, // HostNotFound
		89:    true, // NetworkTimeout
		91:    true, // ShutdownInProgress
		189:   true, // PrimarySteppedDown
		10107: true, // NotMaster
		13436: true, // NotMasterNoSlaveOk
		11600: true, // InterruptedAtShutdown
		11602: true, // InterruptedDueToReplStateChange
		10058: true, // ConnectionReset
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return retryableCodes[cmdErr.Code]
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}

	// 检查常见网络错误
	return isNetworkError(err)
}
